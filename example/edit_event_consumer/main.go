package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joeydtaylor/muedit/pkg/builder"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("info"))
	defer logger.Flush()

	brokers := []string{builder.EnvOr("KAFKA_BROKERS", "localhost:9092")}
	topic := builder.EnvOr("KAFKA_TOPIC", "muedit.edits")

	// Ship this consumer's own logs to a separate topic when asked.
	if logTopic := builder.EnvOr("KAFKA_LOG_TOPIC", ""); logTopic != "" {
		if err := logger.AddSink("kafka", builder.KafkaSinkConfig(brokers, logTopic)); err != nil {
			fmt.Printf("Failed to add kafka sink: %v\n", err)
			return
		}
	}

	reader := builder.NewKafkaGoReader(brokers, builder.EnvOr("KAFKA_GROUP", "muedit-audit"), topic)
	defer reader.Close()

	consumer := builder.NewKafkaEventConsumer(reader, logger)
	err := consumer.Consume(ctx, func(_ context.Context, ev builder.EditEvent) error {
		fmt.Printf("%s session=%s unit=%d discharges=%d changed=%v\n",
			ev.Kind, ev.SessionID, ev.Unit, ev.Discharges, ev.Changed)
		return nil
	})
	if err != nil {
		fmt.Printf("Consumer stopped: %v\n", err)
	}
}
