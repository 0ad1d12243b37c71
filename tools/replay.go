package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gridiron-trends/models"
)

var requiredColumns = []string{
	"GameId", "Quarter", "Minute", "Second", "Description", "Yards",
	"OffenseTeam", "DefenseTeam", "Down", "ToGo", "YardLine",
}

type replayStats struct {
	sent      int
	succeeded int
	failed    int
	latencies []time.Duration
}

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run tools/replay.go <pbp.csv> <game_id> [base_url] [delay]")
		fmt.Println("Example: go run tools/replay.go pbp-2024.csv 2024090500 http://localhost:8080 5s")
		os.Exit(1)
	}

	path, gameID := os.Args[1], os.Args[2]
	baseURL := "http://localhost:8080"
	delay := 5 * time.Second

	if len(os.Args) > 3 {
		baseURL = strings.TrimRight(os.Args[3], "/")
	}
	if len(os.Args) > 4 {
		d, err := time.ParseDuration(os.Args[4])
		if err == nil {
			delay = d
		}
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	plays, err := loadGamePlays(f, gameID)
	f.Close()
	if err != nil {
		fmt.Printf("Failed to read plays: %v\n", err)
		os.Exit(1)
	}
	if len(plays) == 0 {
		fmt.Printf("No plays found for game %s\n", gameID)
		os.Exit(1)
	}

	fmt.Printf("Replay Configuration:\n")
	fmt.Printf("  File:   %s\n", path)
	fmt.Printf("  Game:   %s (%d plays)\n", gameID, len(plays))
	fmt.Printf("  Target: %s\n", baseURL)
	fmt.Printf("  Delay:  %v\n\n", delay)

	client := &http.Client{Timeout: 10 * time.Second}
	stats := &replayStats{latencies: make([]time.Duration, 0, len(plays))}
	start := time.Now()

	for i, play := range plays {
		if i > 0 {
			time.Sleep(delay)
		}
		stats.record(post(client, baseURL+"/play", play))
	}
	stats.record(post(client, baseURL+"/games/"+gameID+"/finish", nil))

	printResults(stats, time.Since(start))
}

// loadGamePlays reads a play-by-play CSV and returns the plays of one game,
// ordered from kickoff to the final whistle.
func loadGamePlays(r io.Reader, gameID string) ([]models.Play, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	number := func(rec []string, name string) int {
		v, _ := strconv.ParseFloat(field(rec, name), 64)
		return int(v)
	}

	// remaining goes negative in overtime; order on it before clamping.
	type timedPlay struct {
		remaining int
		play      models.Play
	}
	var rows []timedPlay
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if field(rec, "GameId") != gameID {
			continue
		}

		quarter := number(rec, "Quarter")
		remaining := (4-quarter)*15*60 + number(rec, "Minute")*60 + number(rec, "Second")

		rows = append(rows, timedPlay{remaining: remaining, play: models.Play{
			GameID:      gameID,
			Quarter:     quarter,
			Time:        max(remaining, 0),
			Description: field(rec, "Description"),
			YardsGained: float64(number(rec, "Yards")),
			OffenseTeam: field(rec, "OffenseTeam"),
			DefenseTeam: field(rec, "DefenseTeam"),
			Down:        number(rec, "Down"),
			YardsToGo:   number(rec, "ToGo"),
			YardLine:    number(rec, "YardLine"),
			PlayType:    field(rec, "PlayType"),
		}})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].remaining > rows[j].remaining
	})
	plays := make([]models.Play, len(rows))
	for i, row := range rows {
		plays[i] = row.play
	}
	return plays, nil
}

func post(client *http.Client, url string, body interface{}) (time.Duration, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest("POST", url, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return latency, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return latency, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return latency, nil
}

func (s *replayStats) record(latency time.Duration, err error) {
	s.sent++
	if err != nil {
		s.failed++
		fmt.Printf("  request failed: %v\n", err)
		return
	}
	s.succeeded++
	s.latencies = append(s.latencies, latency)
}

// percentile expects sorted latencies.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func printResults(s *replayStats, duration time.Duration) {
	sorted := append([]time.Duration(nil), s.latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, l := range sorted {
		total += l
	}
	avg := time.Duration(0)
	if len(sorted) > 0 {
		avg = total / time.Duration(len(sorted))
	}

	fmt.Println("\n==========================================")
	fmt.Println("Replay Results")
	fmt.Println("==========================================")
	fmt.Printf("Duration:       %v\n", duration)
	fmt.Printf("Requests:       %d\n", s.sent)
	fmt.Printf("Successful:     %d\n", s.succeeded)
	fmt.Printf("Failed:         %d\n", s.failed)
	if len(sorted) > 0 {
		fmt.Println("\nLatency Statistics:")
		fmt.Printf("  Min:          %v\n", sorted[0])
		fmt.Printf("  Max:          %v\n", sorted[len(sorted)-1])
		fmt.Printf("  Average:      %v\n", avg)
		fmt.Printf("  p50:          %v\n", percentile(sorted, 50))
		fmt.Printf("  p95:          %v\n", percentile(sorted, 95))
		fmt.Printf("  p99:          %v\n", percentile(sorted, 99))
	}
	fmt.Println("==========================================")
}
