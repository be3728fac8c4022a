package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Kafka runs the order queue over a broker. The producer writes with full
// acks; the consumer-group reader commits an offset only after the handler
// acknowledges, so an unacknowledged order is redelivered by the broker.
type Kafka struct {
	writer  *kafka.Writer
	reader  *kafka.Reader
	handler Handler
	log     *zap.SugaredLogger
}

func NewKafka(brokers []string, topic, groupID string, handler Handler, log *zap.SugaredLogger) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // same order id -> same partition
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handler: handler,
		log:     log,
	}
}

func (q *Kafka) Enqueue(ctx context.Context, ord core.Order) error {
	val, err := json.Marshal(ord)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", ord.ID, err)
	}
	if err := q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ord.ID),
		Value: val,
	}); err != nil {
		return fmt.Errorf("enqueue %s: %w", ord.ID, err)
	}
	return nil
}

func (q *Kafka) Start(ctx context.Context) {
	go q.consume(ctx)
	q.log.Infow("queue_started", "mode", "kafka", "topic", q.reader.Config().Topic)
}

// shutdownErr reports whether a fetch error means the consumer is done:
// context cancellation, or the reader being closed out from under it
// (kafka-go surfaces a closed reader as io.EOF).
func shutdownErr(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe)
}

func (q *Kafka) consume(ctx context.Context) {
	for {
		msg, err := q.reader.FetchMessage(ctx)
		if err != nil {
			if shutdownErr(err) {
				return
			}
			q.log.Errorw("fetch_failed", "err", err)
			continue
		}

		var ord core.Order
		if err := json.Unmarshal(msg.Value, &ord); err != nil {
			// Poison message: commit and move on, redelivery cannot fix it.
			q.log.Errorw("message_decode_failed", "offset", msg.Offset, "err", err)
			_ = q.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := q.handler(ctx, ord); err != nil {
			// Skip the commit; the group redelivers after rebalance/restart.
			q.log.Errorw("handler_failed", "order_id", ord.ID, "err", err)
			continue
		}
		if err := q.reader.CommitMessages(ctx, msg); err != nil {
			q.log.Errorw("commit_failed", "order_id", ord.ID, "err", err)
		}
	}
}

// Close shuts both legs down; closing the reader unblocks a pending fetch.
func (q *Kafka) Close() error {
	rerr := q.reader.Close()
	werr := q.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
