package redisz

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Hook adapts an Interceptor to the go-redis hook chain.
type Hook struct {
	interceptor *Interceptor
}

var _ redis.Hook = (*Hook)(nil)

// NewHook returns a go-redis hook that traces through i.
func NewHook(i *Interceptor) *Hook {
	return &Hook{interceptor: i}
}

// DialHook passes dials through untouched.
func (*Hook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessHook traces single commands.
func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return h.interceptor.Command(ctx, cmd.Args(), func(ctx context.Context) error {
			return next(ctx, cmd)
		})
	}
}

// ProcessPipelineHook traces pipelines and transactions. go-redis routes both
// through this hook.
func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return h.interceptor.Batch(ctx, ClassifyBatch(cmds), func(ctx context.Context) error {
			return next(ctx, cmds)
		})
	}
}

// ClassifyBatch reports BatchMulti for command lists go-redis has wrapped in
// MULTI/EXEC, and BatchPipeline for everything else.
func ClassifyBatch(cmds []redis.Cmder) BatchKind {
	if len(cmds) > 0 && cmds[0].Name() == "multi" {
		return BatchMulti
	}
	return BatchPipeline
}
