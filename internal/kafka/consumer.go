package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/observability"
)

//go:generate mockgen -source consumer.go -destination=consumer_mock_test.go -package=kafka

// ErrSkip marks a message that can never be processed. The consumer commits
// it instead of retrying.
var ErrSkip = errors.New("skip message")

type MessageHandler interface {
	Handle(ctx context.Context, msg kafkago.Message) error
}

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Consumer struct {
	handler MessageHandler
	reader  Reader
	zlogger *zap.Logger
	metrics observability.Metrics

	workerPoolSize int
	jobs           chan jobItem
	retryDelay     time.Duration
}

type jobItem struct {
	msg    kafkago.Message
	result chan error
}

func NewConsumer(handler MessageHandler, reader Reader, workers int, metrics observability.Metrics, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		handler:        handler,
		reader:         reader,
		zlogger:        logger,
		metrics:        metrics,
		workerPoolSize: workers,
		jobs:           make(chan jobItem, workers*2),
		retryDelay:     200 * time.Millisecond,
	}
}

// Start fetches until ctx is done. Each message is handed to a worker and
// awaited, so offsets are committed in fetch order and only after success.
func (c *Consumer) Start(ctx context.Context) {
	rc := c.reader.Config()
	c.zlogger.Info("Starting Kafka consumer",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
		zap.Int("workers", c.workerPoolSize),
	)

	for i := 0; i < c.workerPoolSize; i++ {
		go c.worker(ctx, i)
	}

	var pending *kafkago.Message
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var msg kafkago.Message
		if pending != nil {
			msg = *pending
		} else {
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				if isBenignFetchTimeout(err) {
					c.zlogger.Debug("fetch timeout (idle), backing off", zap.Error(err))
					sleepWithContext(ctx, 10*time.Second)
					continue
				}
				c.zlogger.Warn("FetchMessage error, backing off", zap.Error(err))
				sleepWithContext(ctx, 500*time.Millisecond)
				continue
			}
			msg = m
		}

		done := make(chan error, 1)
		select {
		case c.jobs <- jobItem{msg: msg, result: done}:
		case <-ctx.Done():
			return
		}

		var procErr error
		select {
		case procErr = <-done:
		case <-ctx.Done():
			return
		}

		switch {
		case procErr == nil:
		case errors.Is(procErr, ErrSkip):
			c.zlogger.Warn("skipping unprocessable message", zap.Error(procErr),
				zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
		default:
			// Redeliver the same message; committing past it would lose the snapshot.
			c.zlogger.Error("handler failed; message will not be committed", zap.Error(procErr),
				zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
			pending = &msg
			sleepWithContext(ctx, c.retryDelay)
			continue
		}
		pending = nil

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.zlogger.Warn("commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			sleepWithContext(ctx, c.retryDelay)
			continue
		}
		c.zlogger.Debug("message committed",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
	}
}

func (c *Consumer) worker(ctx context.Context, id int) {
	logger := c.zlogger.With(zap.Int("worker", id))

	for {
		select {
		case <-ctx.Done():
			return
		case it := <-c.jobs:
			if it.result == nil {
				continue
			}

			msg := it.msg
			start := time.Now()
			err := c.handler.Handle(ctx, msg)
			elapsed := time.Since(start)
			c.metrics.ObserveKafka(float64(elapsed.Microseconds())/1000.0, err == nil)

			if err != nil {
				logger.Error("message handling failed",
					zap.Error(err),
					zap.String("topic", msg.Topic),
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Duration("elapsed", elapsed),
				)
				it.result <- err
				continue
			}

			logger.Debug("message handled",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Int("value_bytes", len(msg.Value)),
				zap.Duration("elapsed", elapsed),
			)
			it.result <- nil
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}
