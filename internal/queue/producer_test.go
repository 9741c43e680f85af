package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestEnqueue_ScoresByReadyAt(t *testing.T) {
	rdb := testRedis(t)
	producer := NewProducer(rdb)

	createdAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Unix()
	job := Job{
		ID:        "job-1",
		Type:      JobBroadcastStatusChange,
		Payload:   MustMarshal(map[string]string{"habit_id": "h1"}),
		MaxRetry:  3,
		CreatedAt: createdAt,
		ExpireAt:  createdAt + 300,
	}

	require.NoError(t, producer.Enqueue(context.Background(), job))

	entries, err := rdb.ZRangeWithScores(context.Background(), QueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(createdAt), entries[0].Score)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(entries[0].Member.(string)), &stored))
	assert.Equal(t, "job-1", stored.ID)
	assert.Equal(t, JobBroadcastStatusChange, stored.Type)
}

func TestEnqueue_PastReadyAtIsPoppable(t *testing.T) {
	rdb := testRedis(t)
	producer := NewProducer(rdb)

	job := Job{ID: "job-2", Type: JobBroadcastStatusChange, CreatedAt: time.Now().Add(-time.Minute).Unix()}
	require.NoError(t, producer.Enqueue(context.Background(), job))

	// the worker's pop condition: score has passed
	due, err := rdb.ZRangeByScore(context.Background(), QueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
