package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"gridiron-trends/models"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewRedisClient(addr, password string, ttl time.Duration) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		MaxRetries:   3,
	})

	ctx := context.Background()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{
		client: rdb,
		ctx:    ctx,
		ttl:    ttl,
	}, nil
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

func (rc *RedisClient) Ping() error {
	return rc.client.Ping(rc.ctx).Err()
}

func reportKey(gameID, team, series string) string {
	return "trend:" + gameID + ":" + team + ":" + series
}

func gameIndexKey(gameID string) string {
	return "trend-index:" + gameID
}

// SaveReport stores the report and records its team/series pair in the
// game's index so ListReports can find it.
func (rc *RedisClient) SaveReport(report models.TrendReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	indexKey := gameIndexKey(report.GameID)
	_, err = rc.client.TxPipelined(rc.ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(rc.ctx, reportKey(report.GameID, report.Team, report.Series), data, rc.ttl)
		pipe.SAdd(rc.ctx, indexKey, report.Team+":"+report.Series)
		pipe.Expire(rc.ctx, indexKey, rc.ttl)
		return nil
	})
	return err
}

func (rc *RedisClient) GetReport(gameID, team, series string) (*models.TrendReport, error) {
	val, err := rc.client.Get(rc.ctx, reportKey(gameID, team, series)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report models.TrendReport
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// ListReports returns every unexpired report of a game, ordered by team and
// series.
func (rc *RedisClient) ListReports(gameID string) ([]models.TrendReport, error) {
	members, err := rc.client.SMembers(rc.ctx, gameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)

	reports := make([]models.TrendReport, 0, len(members))
	for _, m := range members {
		team, series, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		report, err := rc.GetReport(gameID, team, series)
		if err != nil {
			return nil, err
		}
		if report != nil {
			reports = append(reports, *report)
		}
	}
	return reports, nil
}
