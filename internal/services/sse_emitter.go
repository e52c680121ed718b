package services

import (
	"context"

	redisclient "github.com/yungbote/ipdesk-backend/internal/clients/redis"
	"github.com/yungbote/ipdesk-backend/internal/sse"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

// HubEmitter delivers straight to the in-process hub (single instance).
type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes through the Redis bus so every instance's hub
// sees the message.
type RedisEmitter struct{ Bus redisclient.SSEBus }

func (e *RedisEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
