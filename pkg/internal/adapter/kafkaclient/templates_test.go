package kafkaclient

import (
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

func TestRenderTemplateFields(t *testing.T) {
	fields := eventFields(types.EditEvent{SessionID: "S-1", Kind: types.EventAdded, Unit: 3})

	if got := renderTemplate(DefaultKeyTemplate, fields); got != "S-1/3" {
		t.Fatalf("expected S-1/3, got %q", got)
	}
	if got := renderTemplate("static-key", fields); got != "static-key" {
		t.Fatalf("expected literal key, got %q", got)
	}
	if got := renderTemplate("{missing}-x", fields); got != "-x" {
		t.Fatalf("expected unknown field to render empty, got %q", got)
	}
	if got := renderTemplate("open{kind", fields); got != "open{kind" {
		t.Fatalf("expected unterminated placeholder to stay literal, got %q", got)
	}
}

func TestMessageTopicPrefersWriterTopic(t *testing.T) {
	p := NewEventPublisher(WithWriter(&kafka.Writer{Topic: "edits"}, "ignored"))
	topic, err := p.messageTopic()
	if err != nil || topic != "" {
		t.Fatalf("expected empty per-message topic, got %q, %v", topic, err)
	}
	if p.topicForLogs() != "edits" {
		t.Fatalf("expected writer topic in logs, got %q", p.topicForLogs())
	}

	p = NewEventPublisher(WithWriter(&kafka.Writer{}, ""))
	if _, err := p.messageTopic(); err != ErrNoTopic {
		t.Fatalf("expected ErrNoTopic, got %v", err)
	}
}

func TestSetComponentMetadataPreservesType(t *testing.T) {
	p := NewEventPublisher()
	p.SetComponentMetadata("demo", "id-1")
	if p.componentMetadata.Type != "KAFKA_EVENT_PUBLISHER" {
		t.Fatalf("expected type to be preserved, got %q", p.componentMetadata.Type)
	}
}
