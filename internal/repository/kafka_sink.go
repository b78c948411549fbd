package repository

import (
	"context"
	"math"
	"time"

	"LagScan/internal/domain/models"
	pkgkafka "LagScan/pkg/kafka"
	applogger "LagScan/pkg/logger"
)

// resultEnvelope is the wire shape published per result row. Correlation is a
// pointer so undefined values serialize as null instead of breaking the
// JSON encoder on NaN.
type resultEnvelope struct {
	Pair        string    `json:"pair"`
	Base        string    `json:"base"`
	Quote       string    `json:"quote"`
	Timestamp   time.Time `json:"ts"`
	Correlation *float64  `json:"correlation"`
	Lag         int       `json:"lag"`
}

// KafkaSink publishes result sequences to a Kafka topic, keyed by pair so a
// pair's rows stay on one partition in order.
type KafkaSink struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaSink(producer *pkgkafka.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (s *KafkaSink) SetLogger(l *applogger.Logger) { s.l = l }

func (s *KafkaSink) Write(ctx context.Context, pair models.Pair, results []models.LagResult) error {
	if len(results) == 0 {
		return nil
	}
	start := time.Now()
	key := []byte(pair.Key())

	msgs := make([]pkgkafka.Message, 0, len(results))
	for _, r := range results {
		var corr *float64
		if !math.IsNaN(r.Correlation) {
			v := r.Correlation
			corr = &v
		}
		msgs = append(msgs, pkgkafka.Message{
			Key: key,
			Value: resultEnvelope{
				Pair:        pair.Key(),
				Base:        pair.Base,
				Quote:       pair.Quote,
				Timestamp:   r.Timestamp,
				Correlation: corr,
				Lag:         r.Lag,
			},
		})
	}

	if err := s.producer.PublishBatch(ctx, s.topic, msgs); err != nil {
		if s.l != nil {
			s.l.Error("kafka results publish failed",
				applogger.String("pair", pair.Key()),
				applogger.String("topic", s.topic),
				applogger.Error(err),
			)
		}
		return err
	}

	if s.l != nil {
		s.l.Info("kafka results published",
			applogger.String("pair", pair.Key()),
			applogger.String("topic", s.topic),
			applogger.Int("rows", len(results)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *KafkaSink) Close() error { return nil }
