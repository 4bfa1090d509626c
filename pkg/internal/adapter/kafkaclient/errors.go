package kafkaclient

import "errors"

var (
	// ErrNoWriter is returned by Publish when no writer was configured.
	ErrNoWriter = errors.New("kafkaclient: writer is required")

	// ErrNoTopic is returned when neither the publisher nor its kafka-go
	// writer names a topic.
	ErrNoTopic = errors.New("kafkaclient: topic is required")

	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("kafkaclient: publisher closed")
)
