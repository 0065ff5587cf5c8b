package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Single topic; subscribers filter by Event.Kind.
const lifecycleTopic = "jobs.lifecycle"

type watermillBus struct {
	pubsub *gochannel.GoChannel
}

// NewBus builds an in-process lifecycle bus backed by a watermill
// go-channel pub/sub. Subscribers must subscribe before events of
// interest are published; delivery is not persistent.
func NewBus() Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	return &watermillBus{pubsub: pubsub}
}

func (b *watermillBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubsub.Publish(lifecycleTopic, msg)
}

func (b *watermillBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	msgs, err := b.pubsub.Subscribe(ctx, lifecycleTopic)
	if err != nil {
		return nil, fmt.Errorf("subscribe lifecycle topic: %w", err)
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		for msg := range msgs {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *watermillBus) Close() error {
	return b.pubsub.Close()
}
