package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Producer appends tasks to a stream. Stream length is capped approximately
// at maxLen entries.
type Producer struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewProducer(client redis.Cmdable, stream string) *Producer {
	return &Producer{client: client, stream: stream, maxLen: 1000}
}

// Enqueue adds a task of the given type and returns its stream id.
func (p *Producer) Enqueue(ctx context.Context, taskType string, values map[string]any) (string, error) {
	fields := make(map[string]any, len(values)+1)
	for k, v := range values {
		fields[k] = v
	}
	fields["type"] = taskType

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: fields,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return id, nil
}
