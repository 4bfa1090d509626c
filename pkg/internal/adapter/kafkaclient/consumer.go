package kafkaclient

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

// EventHandler processes one decoded event. Returning an error stops
// consumption before the message is committed.
type EventHandler func(ctx context.Context, ev types.EditEvent) error

// EventConsumer reads edit events from a consumer group.
type EventConsumer struct {
	componentMetadata types.ComponentMetadata

	reader  MessageReader
	decoder codec.Decoder[types.EditEvent]

	loggers   []types.Logger
	loggersMu sync.Mutex
}

// NewEventConsumer returns a consumer over r.
func NewEventConsumer(r MessageReader, loggers ...types.Logger) *EventConsumer {
	c := &EventConsumer{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "KAFKA_EVENT_CONSUMER",
		},
		reader:  r,
		decoder: codec.NewJSONDecoder[types.EditEvent](),
	}
	c.ConnectLogger(loggers...)
	return c
}

// Consume fetches, decodes and handles events until ctx is done. Messages
// that do not decode are logged and committed so they are not redelivered.
func (c *EventConsumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		ev, err := c.decoder.Decode(bytes.NewReader(msg.Value))
		if err != nil {
			c.NotifyLoggers(types.WarnLevel, "Skipping undecodable edit event",
				"component", c.componentMetadata,
				"event", "Decode",
				"result", "FAILURE",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		} else if err := handle(ctx, ev); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
