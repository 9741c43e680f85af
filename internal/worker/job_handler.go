package worker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rabbithabit/rabbit-core/internal/queue"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
	worker_handler "github.com/rabbithabit/rabbit-core/internal/worker/worker-handler"
)

func HandleJob(ctx context.Context, job queue.Job, redis *redis.Client, hub *websocket.Hub) error {
	workerHandler := worker_handler.NewWorkerHandler(ctx, redis, hub)
	switch job.Type {
	case queue.JobBroadcastStatusChange:
		return workerHandler.HandleBroadcastStatusChange(job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
