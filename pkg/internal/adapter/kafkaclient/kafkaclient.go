// Package kafkaclient publishes session edit events to Kafka and reads them
// back for audit consumers.
package kafkaclient

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

// MessageWriter is the producer side of kafka-go. *kafka.Writer satisfies
// it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageReader is the consumer side of kafka-go. *kafka.Reader satisfies
// it.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

var (
	_ MessageWriter = (*kafka.Writer)(nil)
	_ MessageReader = (*kafka.Reader)(nil)
)

// DefaultKeyTemplate keys messages by session and unit so the events of one
// unit stay ordered within a partition.
const DefaultKeyTemplate = "{session_id}/{unit}"

// EventPublisher implements types.EventSink on a Kafka topic.
type EventPublisher struct {
	componentMetadata types.ComponentMetadata

	writer       MessageWriter
	topic        string
	keyTemplate  string
	hdrTemplates map[string]string
	encoder      codec.Encoder[types.EditEvent]
	timeout      time.Duration

	closed bool
	mu     sync.Mutex

	loggers   []types.Logger
	loggersMu sync.Mutex
}

var _ types.EventSink = (*EventPublisher)(nil)

// NewEventPublisher returns a publisher writing JSON events. A writer must be
// supplied with WithWriter.
func NewEventPublisher(options ...types.Option[*EventPublisher]) *EventPublisher {
	p := &EventPublisher{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "KAFKA_EVENT_PUBLISHER",
		},
		keyTemplate: DefaultKeyTemplate,
		hdrTemplates: map[string]string{
			"event-kind": "{kind}",
			"source":     "muedit",
		},
		encoder: codec.NewJSONEncoder[types.EditEvent](),
		timeout: 10 * time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}
