package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbithabit/rabbit-core/internal/queue"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func enqueue(t *testing.T, rdb *redis.Client, job queue.Job) {
	t.Helper()
	require.NoError(t, queue.NewProducer(rdb).Enqueue(context.Background(), job))
}

func TestWorkerPool_UnknownJobLandsInDLQ(t *testing.T) {
	rdb := testRedis(t)
	hub := websocket.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	enqueue(t, rdb, queue.Job{
		ID:        "bad-job",
		Type:      "no_such_type",
		MaxRetry:  1,
		CreatedAt: now.Add(-time.Second).Unix(),
		ExpireAt:  now.Add(5 * time.Minute).Unix(),
	})

	pool := NewWorkerPool(rdb, 1, hub)
	pool.Start(ctx)

	require.Eventually(t, func() bool {
		n, err := rdb.LLen(context.Background(), queue.DLQKey).Result()
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)

	payload, err := rdb.LIndex(context.Background(), queue.DLQKey, 0).Result()
	require.NoError(t, err)

	var dead queue.Job
	require.NoError(t, json.Unmarshal([]byte(payload), &dead))
	assert.Equal(t, "bad-job", dead.ID)
	assert.Equal(t, 1, dead.Retry)
	assert.Contains(t, dead.ErrorMsg, "unknown job type")

	cancel()
	pool.Stop()
}

func TestWorkerPool_BroadcastJobConsumed(t *testing.T) {
	rdb := testRedis(t)
	hub := websocket.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	enqueue(t, rdb, queue.Job{
		ID:        "status-job",
		Type:      queue.JobBroadcastStatusChange,
		Payload:   json.RawMessage(`{"habit_id":"h1","channel_id":"c1","status":"hungry","combo":0}`),
		MaxRetry:  3,
		CreatedAt: now.Add(-time.Second).Unix(),
		ExpireAt:  now.Add(5 * time.Minute).Unix(),
	})

	pool := NewWorkerPool(rdb, 1, hub)
	pool.Start(ctx)

	// job is popped and succeeds: no subscribers means a silent broadcast
	require.Eventually(t, func() bool {
		n, err := rdb.ZCard(context.Background(), queue.QueueKey).Result()
		return err == nil && n == 0
	}, 5*time.Second, 50*time.Millisecond)

	dlqLen, err := rdb.LLen(context.Background(), queue.DLQKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), dlqLen)

	cancel()
	pool.Stop()
}

func TestHandleJob_UnknownType(t *testing.T) {
	rdb := testRedis(t)
	hub := websocket.NewHub()
	defer hub.Close()

	err := HandleJob(context.Background(), queue.Job{Type: "mystery"}, rdb, hub)
	require.Error(t, err)
}
