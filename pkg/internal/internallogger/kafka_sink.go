package internallogger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

const defaultKafkaSinkTimeout = 5 * time.Second

type kafkaProducer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// newKafkaProducer is replaced in tests.
var newKafkaProducer = func(brokers []string, topic string) kafkaProducer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// kafkaWriteSyncer produces every encoded log line as one message.
type kafkaWriteSyncer struct {
	producer kafkaProducer
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

func newKafkaWriteSyncer(cfg map[string]interface{}) (*kafkaWriteSyncer, error) {
	brokers := stringList(cfg["brokers"])
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka sink requires brokers")
	}
	topic, _ := cfg["topic"].(string)
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka sink requires topic")
	}
	timeout := defaultKafkaSinkTimeout
	if d, ok := cfg["timeout"].(time.Duration); ok && d > 0 {
		timeout = d
	}
	return &kafkaWriteSyncer{producer: newKafkaProducer(brokers, topic), timeout: timeout}, nil
}

func (k *kafkaWriteSyncer) Write(p []byte) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return 0, fmt.Errorf("kafka sink closed")
	}
	// zap reuses its buffer after Write returns.
	line := append([]byte(nil), strings.TrimRight(string(p), "\n")...)
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	if err := k.producer.WriteMessages(ctx, kafka.Message{Value: line}); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (k *kafkaWriteSyncer) Sync() error { return nil }

func (k *kafkaWriteSyncer) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true
	_ = k.producer.Close()
}

func stringList(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = append(raw, t...)
	case []interface{}:
		for _, x := range t {
			if s, ok := x.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}
	return utils.Filter(raw, func(s string) bool { return s != "" })
}
