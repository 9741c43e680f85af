package worker_handler

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/rabbithabit/rabbit-core/internal/websocket"
)

type WorkerHandler struct {
	Ctx   context.Context
	Redis *redis.Client
	Hub   *websocket.Hub
}

func NewWorkerHandler(ctx context.Context, redis *redis.Client, hub *websocket.Hub) *WorkerHandler {
	return &WorkerHandler{
		Ctx:   ctx,
		Redis: redis,
		Hub:   hub,
	}
}
