package kafkaclient

import (
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// WithWriter sets the producer. topic is used when the writer has none.
func WithWriter(w MessageWriter, topic string) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		p.writer = w
		p.topic = topic
	}
}

// WithKeyTemplate sets the message key template. Placeholders name JSON
// fields of the event, for example "{session_id}/{unit}". An empty template
// produces unkeyed messages.
func WithKeyTemplate(tmpl string) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		p.keyTemplate = tmpl
	}
}

// WithHeaderTemplates adds message headers rendered from the event.
func WithHeaderTemplates(tmpls map[string]string) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		for k, v := range tmpls {
			p.hdrTemplates[k] = v
		}
	}
}

// WithTimeout bounds each produce call. Zero leaves the caller's context
// alone.
func WithTimeout(d time.Duration) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		p.timeout = d
	}
}

// WithLogger attaches loggers to the publisher.
func WithLogger(loggers ...types.Logger) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		p.ConnectLogger(loggers...)
	}
}

// WithComponentMetadata sets the publisher name and id.
func WithComponentMetadata(name, id string) types.Option[*EventPublisher] {
	return func(p *EventPublisher) {
		p.SetComponentMetadata(name, id)
	}
}
