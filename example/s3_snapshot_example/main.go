package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joeydtaylor/muedit/pkg/builder"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("info"))
	defer logger.Flush()

	// LocalStack defaults unless MUEDIT_S3_* says otherwise.
	s3cfg := builder.S3ClientConfigFromEnv()
	if s3cfg.Endpoint == "" && s3cfg.AccessKey == "" && s3cfg.RoleARN == "" {
		s3cfg.Endpoint, s3cfg.PathStyle = "http://localhost:4566", true
		s3cfg.AccessKey, s3cfg.SecretKey = "test", "test"
	}
	cli, err := builder.NewS3Client(ctx, s3cfg)
	if err != nil {
		panic(err)
	}
	bucket := s3cfg.Bucket
	if err := builder.S3EnsureBucket(ctx, cli, bucket); err != nil {
		panic(err)
	}

	// Edit events go to Kafka when brokers are configured.
	var sink builder.EventSink
	if brokers := builder.EnvOr("KAFKA_BROKERS", ""); brokers != "" {
		w := builder.NewKafkaGoWriter([]string{brokers}, builder.EnvOr("KAFKA_TOPIC", "muedit.edits"))
		publisher := builder.NewKafkaEventPublisher(
			builder.KafkaEventPublisherWithWriter(w, ""),
			builder.KafkaEventPublisherWithLogger(logger),
		)
		defer publisher.Close()
		sink = publisher
	}

	store := builder.NewS3SnapshotStore(
		builder.S3SnapshotStoreWithClient(cli, bucket),
		builder.S3SnapshotStoreWithPrefix(s3cfg.Prefix),
		builder.S3SnapshotStoreWithCompression(builder.CompressZstd),
		builder.S3SnapshotStoreWithSSE("AES256", ""),
		builder.S3SnapshotStoreWithDischargeExport("snappy"),
		builder.S3SnapshotStoreWithLogger(logger),
	)
	if key := builder.EnvOr("MUEDIT_CSE_KEY_HEX", ""); key != "" {
		store = builder.NewS3SnapshotStore(
			builder.S3SnapshotStoreWithClient(cli, bucket),
			builder.S3SnapshotStoreWithClientSideEncryption(key),
			builder.S3SnapshotStoreWithRequireClientSideEncryption(),
			builder.S3SnapshotStoreWithLogger(logger),
		)
	}

	rows := [][]float64{make([]float64, 4096), make([]float64, 4096)}
	for i := range rows[0] {
		if i%256 == 128 {
			rows[0][i], rows[1][i] = 3, 2
		}
	}
	raw, err := builder.NewMultichannelSignal(rows, 2048)
	if err != nil {
		panic(err)
	}
	pulse := make([]float64, 4096)
	var discharges []int
	for i := 128; i < 4096; i += 256 {
		pulse[i] = 1
		discharges = append(discharges, i)
	}

	opts := []builder.SessionOption{builder.SessionWithLogger(logger)}
	if sink != nil {
		opts = append(opts, builder.SessionWithEventSink(sink))
	}
	session, err := builder.NewSession(builder.Decomposition{
		Raw:      raw,
		Units:    []builder.UnitInput{{Pulse: pulse, Discharges: discharges}},
		Metadata: builder.SessionMetadata{Filename: "s3-demo", GridName: "4-8-L", IED: 8.75},
	}, opts...)
	if err != nil {
		panic(err)
	}

	// Drop the third discharge with a selection box around it.
	if _, err := session.RemoveInSelection(ctx, session.Units()[0].ID, builder.Selection{
		FromSample: 600, ToSample: 700, MinAmp: 0.5, MaxAmp: 1.5,
	}); err != nil {
		panic(err)
	}

	location, err := session.Save(ctx, store, "s3-demo")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Snapshot stored at %s\n", location)

	keys, err := store.List(ctx)
	if err != nil {
		panic(err)
	}
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}

	snap, err := store.Load(ctx, location)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Reloaded %d unit(s), %d discharges in the first\n", snap.Units, len(snap.Discharges[0]))
}
