package kafkaclient

import (
	"bytes"
	"context"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// Publish writes one event. It satisfies types.EventSink.
func (p *EventPublisher) Publish(ctx context.Context, ev types.EditEvent) error {
	return p.PublishBatch(ctx, ev)
}

// PublishBatch writes events in one produce call.
func (p *EventPublisher) PublishBatch(ctx context.Context, events ...types.EditEvent) error {
	if len(events) == 0 {
		return nil
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if p.writer == nil {
		return ErrNoWriter
	}
	topic, err := p.messageTopic()
	if err != nil {
		return err
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msg, err := p.message(topic, ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.NotifyLoggers(types.ErrorLevel, "Edit events not produced",
			"component", p.componentMetadata,
			"event", "Produce",
			"result", "FAILURE",
			"topic", p.topicForLogs(),
			"records", len(msgs),
			"error", err,
		)
		return err
	}
	p.NotifyLoggers(types.DebugLevel, "Edit events produced",
		"component", p.componentMetadata,
		"event", "Produce",
		"result", "SUCCESS",
		"topic", p.topicForLogs(),
		"records", len(msgs),
	)
	return nil
}

// Close closes the underlying writer. Later publishes fail with ErrClosed.
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *EventPublisher) message(topic string, ev types.EditEvent) (kafka.Message, error) {
	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, ev); err != nil {
		return kafka.Message{}, err
	}
	fields := eventFields(ev)

	msg := kafka.Message{
		Topic: topic,
		Value: bytes.TrimRight(buf.Bytes(), "\n"),
		Time:  ev.Time,
	}
	if p.keyTemplate != "" {
		msg.Key = []byte(renderTemplate(p.keyTemplate, fields))
	}
	for k, tmpl := range p.hdrTemplates {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(renderTemplate(tmpl, fields))})
	}
	return msg, nil
}

// messageTopic returns the per-message topic. kafka-go rejects messages that
// set a topic when the writer already has one.
func (p *EventPublisher) messageTopic() (string, error) {
	if w, ok := p.writer.(*kafka.Writer); ok && strings.TrimSpace(w.Topic) != "" {
		return "", nil
	}
	if t := strings.TrimSpace(p.topic); t != "" {
		return t, nil
	}
	return "", ErrNoTopic
}

func (p *EventPublisher) topicForLogs() string {
	if w, ok := p.writer.(*kafka.Writer); ok && w.Topic != "" {
		return w.Topic
	}
	return p.topic
}
