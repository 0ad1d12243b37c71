package cache

import (
	"os"
	"testing"
	"time"

	"gridiron-trends/models"
	"gridiron-trends/trend"
)

func getTestClient(t *testing.T) *RedisClient {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rc, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), time.Minute)
	if err != nil {
		t.Skipf("skipping integration test (Redis not available): %v", err)
	}
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestRedisClient_SaveAndGetReport(t *testing.T) {
	rc := getTestClient(t)
	gameID := "test-" + time.Now().Format("150405.000000000")

	res, err := trend.NewDetector().Detect("rushes per drive", []float64{0, 1, 2, 3, 6, 10, 3, 1, 5}, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	report := models.TrendReport{
		GameID:    gameID,
		Team:      "PHI",
		Series:    "rushes per drive",
		Result:    res,
		Narrative: trend.Narrate(res),
		UpdatedAt: time.Now().UTC(),
	}

	if err := rc.SaveReport(report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := rc.GetReport(gameID, "PHI", "rushes per drive")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got == nil {
		t.Fatal("report not found")
	}
	if len(got.Result.Anomalies) != len(res.Anomalies) || len(got.Narrative) != len(report.Narrative) {
		t.Errorf("round trip lost data: %+v", got)
	}

	list, err := rc.ListReports(gameID)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 1 || list[0].Series != "rushes per drive" {
		t.Errorf("ListReports = %+v", list)
	}
}

func TestRedisClient_MissingReport(t *testing.T) {
	rc := getTestClient(t)

	got, err := rc.GetReport("no-such-game", "PHI", "yards per play")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil report, got %+v", got)
	}
}

func TestRedisClient_ListReports(t *testing.T) {
	rc := getTestClient(t)
	gameID := "list-" + time.Now().Format("150405.000000000")

	res, err := trend.NewDetector().Detect("yards per play", []float64{4, 6}, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for _, key := range []struct{ team, series string }{
		{"PHI", "yards per play"},
		{"PHI", "passes per drive"},
		{"GB", "rushes per drive"},
	} {
		report := models.TrendReport{GameID: gameID, Team: key.team, Series: key.series, Result: res, UpdatedAt: time.Now().UTC()}
		if err := rc.SaveReport(report); err != nil {
			t.Fatalf("SaveReport(%s/%s): %v", key.team, key.series, err)
		}
	}
	t.Cleanup(func() {
		rc.client.Del(rc.ctx, gameIndexKey(gameID),
			reportKey(gameID, "PHI", "passes per drive"),
			reportKey(gameID, "GB", "rushes per drive"))
	})

	// An expired report leaves its member behind in the index.
	if err := rc.client.Del(rc.ctx, reportKey(gameID, "PHI", "yards per play")).Err(); err != nil {
		t.Fatalf("Del: %v", err)
	}

	list, err := rc.ListReports(gameID)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	var got []string
	for _, r := range list {
		got = append(got, r.Team+"/"+r.Series)
	}
	want := []string{"GB/rushes per drive", "PHI/passes per drive"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ListReports = %v, want %v", got, want)
	}

	other, err := rc.ListReports("no-such-game")
	if err != nil {
		t.Fatalf("ListReports(unknown): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unknown game listed %d reports", len(other))
	}
}
