package builder

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/joeydtaylor/muedit/pkg/internal/adapter/kafkaclient"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

///////////////////////////////////
// Edit event publisher + consumer
///////////////////////////////////

type (
	KafkaEventPublisher = kafkaclient.EventPublisher
	KafkaEventConsumer  = kafkaclient.EventConsumer
	KafkaEventHandler   = kafkaclient.EventHandler
)

// NewKafkaEventPublisher creates an EventSink that writes edit events to
// Kafka as JSON.
func NewKafkaEventPublisher(options ...types.Option[*kafkaclient.EventPublisher]) *KafkaEventPublisher {
	return kafkaclient.NewEventPublisher(options...)
}

// KafkaEventPublisherWithWriter injects the producer. topic may be empty
// when the writer carries its own topic.
func KafkaEventPublisherWithWriter(w kafkaclient.MessageWriter, topic string) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithWriter(w, topic)
}

// KafkaEventPublisherWithKeyTemplate sets the message key template, e.g.
// "{session_id}/{unit}".
func KafkaEventPublisherWithKeyTemplate(tmpl string) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithKeyTemplate(tmpl)
}

func KafkaEventPublisherWithHeaderTemplates(tmpls map[string]string) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithHeaderTemplates(tmpls)
}

func KafkaEventPublisherWithTimeout(d time.Duration) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithTimeout(d)
}

func KafkaEventPublisherWithLogger(loggers ...types.Logger) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithLogger(loggers...)
}

func KafkaEventPublisherWithComponentMetadata(name, id string) types.Option[*kafkaclient.EventPublisher] {
	return kafkaclient.WithComponentMetadata(name, id)
}

// NewKafkaEventConsumer reads edit events back, committing each message
// once its handler returns.
func NewKafkaEventConsumer(r kafkaclient.MessageReader, loggers ...types.Logger) *KafkaEventConsumer {
	return kafkaclient.NewEventConsumer(r, loggers...)
}

// ---- kafka-go Writer convenience ----

type KafkaGoWriterOption func(*kafka.Writer)

// NewKafkaGoWriter builds a kafka-go Writer for edit events. Events of one
// unit share a key, so the hash balancer keeps them ordered.
func NewKafkaGoWriter(brokers []string, topic string, opts ...KafkaGoWriterOption) *kafka.Writer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		BatchBytes:             int64(1 << 20), // kafka-go uses int64 for BatchBytes
		BatchSize:              100,
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func KafkaGoWriterWithLeastBytes() KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.Balancer = &kafka.LeastBytes{} }
}
func KafkaGoWriterWithBatchTimeout(d time.Duration) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.BatchTimeout = d }
}
func KafkaGoWriterWithBatchSize(n int) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.BatchSize = n }
}
func KafkaGoWriterWithRequiredAcks(mode string) KafkaGoWriterOption {
	return func(w *kafka.Writer) {
		switch strings.ToLower(mode) {
		case "0", "none":
			w.RequiredAcks = kafka.RequireNone
		case "1", "leader":
			w.RequiredAcks = kafka.RequireOne
		default: // "all", "-1"
			w.RequiredAcks = kafka.RequireAll
		}
	}
}
func KafkaGoWriterWithTransport(t *kafka.Transport) KafkaGoWriterOption {
	return func(w *kafka.Writer) { w.Transport = t }
}

// ---- kafka-go Reader convenience ----

type KafkaGoReaderOption func(*kafka.ReaderConfig)

// NewKafkaGoReader builds a consumer-group reader for the edit event topic.
// Offsets are committed explicitly by the consumer.
func NewKafkaGoReader(brokers []string, group, topic string, opts ...KafkaGoReaderOption) *kafka.Reader {
	cfg := kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     group,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20, // 10 MiB
		MaxWait:     500 * time.Millisecond,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return kafka.NewReader(cfg)
}

func KafkaGoReaderWithLatestStart() KafkaGoReaderOption {
	return func(c *kafka.ReaderConfig) { c.StartOffset = kafka.LastOffset }
}
func KafkaGoReaderWithMaxWait(d time.Duration) KafkaGoReaderOption {
	return func(c *kafka.ReaderConfig) { c.MaxWait = d }
}
func KafkaGoReaderWithDialer(d *kafka.Dialer) KafkaGoReaderOption {
	return func(c *kafka.ReaderConfig) { c.Dialer = d }
}

// -------------------------------------------------
// Security helpers (TLS + SASL)
// -------------------------------------------------

// TLSFromCAFilesStrict loads a strict TLS config (Min TLS1.2) using the first
// existing file path from candidates. If serverName != "", it is set for SNI
// and hostname verification.
func TLSFromCAFilesStrict(candidates []string, serverName string) (*tls.Config, error) {
	var picked string
	for _, p := range candidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			picked = p
			break
		}
	}
	if picked == "" {
		return nil, fmt.Errorf("no CA file found in candidates: %v", candidates)
	}
	pem, err := os.ReadFile(filepath.Clean(picked))
	if err != nil {
		return nil, fmt.Errorf("read CA: %w", err)
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("invalid CA PEM at %s", picked)
	}
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    cp,
	}
	if serverName != "" {
		cfg.ServerName = serverName
	}
	return cfg, nil
}

// SASLSCRAM returns a sasl.Mechanism for kafka-go from a common name.
// Supported: "SCRAM-SHA-256" (default), "SCRAM-SHA-512".
func SASLSCRAM(user, pass, mech string) (sasl.Mechanism, error) {
	switch strings.ToUpper(strings.ReplaceAll(mech, "_", "-")) {
	case "", "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, user, pass)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, user, pass)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", mech)
	}
}

// NewKafkaGoTransport builds a kafka-go Transport with optional TLS/SASL/ClientID.
func NewKafkaGoTransport(tlsCfg *tls.Config, mech sasl.Mechanism, clientID string) *kafka.Transport {
	return &kafka.Transport{
		TLS:      tlsCfg,
		SASL:     mech,
		ClientID: clientID,
	}
}

// NewKafkaGoDialer builds a kafka-go Dialer with optional TLS/SASL.
// If timeout is zero, 10s is used.
func NewKafkaGoDialer(tlsCfg *tls.Config, mech sasl.Mechanism, timeout time.Duration) *kafka.Dialer {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &kafka.Dialer{
		Timeout:       timeout,
		DualStack:     true,
		SASLMechanism: mech,
		TLS:           tlsCfg,
	}
}

// NewKafkaGoWriterSecure: NewKafkaGoWriter + Transport(TLS/SASL) in one call.
func NewKafkaGoWriterSecure(brokers []string, topic string, tlsCfg *tls.Config, mech sasl.Mechanism, clientID string, opts ...KafkaGoWriterOption) *kafka.Writer {
	transport := NewKafkaGoTransport(tlsCfg, mech, clientID)
	opts = append([]KafkaGoWriterOption{KafkaGoWriterWithTransport(transport)}, opts...)
	return NewKafkaGoWriter(brokers, topic, opts...)
}

// NewKafkaGoReaderSecure: NewKafkaGoReader + Dialer(TLS/SASL) in one call.
func NewKafkaGoReaderSecure(brokers []string, group, topic string, tlsCfg *tls.Config, mech sasl.Mechanism, opts ...KafkaGoReaderOption) *kafka.Reader {
	dialer := NewKafkaGoDialer(tlsCfg, mech, 0)
	opts = append([]KafkaGoReaderOption{KafkaGoReaderWithDialer(dialer)}, opts...)
	return NewKafkaGoReader(brokers, group, topic, opts...)
}
