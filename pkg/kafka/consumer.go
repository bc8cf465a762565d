package kafka

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"

	applogger "CryptoDash/pkg/logger"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ErrNoHandler is returned by Start when nothing was registered.
var ErrNoHandler = errors.New("no handlers registered")

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer fans messages from one reader per topic into a worker pool.
// Every (topic, partition) is owned by a single worker, so a partition is
// handled and committed in fetch order. Offsets are committed after the
// handler succeeds, or after the message was parked on the DLQ.
type Consumer struct {
	cfg       *ConsumerConfig
	log       *applogger.Logger
	newReader func(topic string) messageReader
	readers   map[string]messageReader
	handlers  map[string]MessageHandler
	dlq       messageWriter

	shards   []chan kafka.Message
	ctx      context.Context
	cancel   context.CancelFunc
	fetchWG  sync.WaitGroup
	workWG   sync.WaitGroup
	stopOnce sync.Once
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(l *applogger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "cryptodash",
		WorkerCount: 2,
		BufferSize:  64,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    1,
		MaxBytes:    10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	var dlq messageWriter
	if cfg.DLQTopic != "" {
		dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}
	newReader := func(topic string) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    topic,
			GroupID:  cfg.GroupID,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		})
	}
	return newConsumer(cfg, l, newReader, dlq), nil
}

func newConsumer(cfg *ConsumerConfig, l *applogger.Logger, newReader func(string) messageReader, dlq messageWriter) *Consumer {
	if l == nil {
		l = applogger.Nop()
	}
	initConsumerMetrics()
	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	perShard := cfg.BufferSize / workers
	if perShard < 1 {
		perShard = 1
	}
	shards := make([]chan kafka.Message, workers)
	for i := range shards {
		shards[i] = make(chan kafka.Message, perShard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		cfg:       cfg,
		log:       l,
		newReader: newReader,
		readers:   make(map[string]messageReader),
		handlers:  make(map[string]MessageHandler),
		dlq:       dlq,
		shards:    shards,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// RegisterHandler registers a message handler for its topic. Must be called
// before Start.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.log.Warn("kafka handler already registered", applogger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// Start starts the readers and the worker pool. It does not block.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return ErrNoHandler
	}
	for topic := range c.handlers {
		c.readers[topic] = c.newReader(topic)
	}

	for _, shard := range c.shards {
		c.workWG.Add(1)
		go c.worker(shard)
	}
	for topic, reader := range c.readers {
		c.fetchWG.Add(1)
		go c.fetch(topic, reader)
	}
	c.log.Info("kafka consumer started",
		applogger.Int("workers", len(c.shards)),
		applogger.String("group_id", c.cfg.GroupID),
	)
	return nil
}

// Stop cancels in-flight work and waits for goroutines until ctx expires.
// Buffered messages that were not committed are redelivered after restart.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		c.cancel()

		done := make(chan struct{})
		go func() {
			c.fetchWG.Wait()
			for _, shard := range c.shards {
				close(shard)
			}
			c.workWG.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		}

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				c.log.Warn("kafka reader close failed", applogger.String("topic", topic), applogger.Error(err))
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				c.log.Warn("kafka dlq close failed", applogger.Error(err))
			}
		}
		if stopErr == nil {
			c.log.Info("kafka consumer stopped")
		}
	})
	return stopErr
}

func (c *Consumer) fetch(topic string, reader messageReader) {
	defer c.fetchWG.Done()
	for {
		msg, err := reader.FetchMessage(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.log.Warn("kafka fetch failed", applogger.String("topic", topic), applogger.Error(err))
			if !sleepCtx(c.ctx, c.cfg.BackoffMin) {
				return
			}
			continue
		}
		msg.Topic = topic
		shard := c.shards[shardFor(topic, msg.Partition, len(c.shards))]

		// Blocking send is the backpressure: a full shard stops fetching.
		select {
		case shard <- msg:
			consumerQueueDepth.WithLabelValues(topic).Set(float64(len(shard)))
		case <-c.ctx.Done():
			return
		}
	}
}

// shardFor pins a (topic, partition) to one worker.
func shardFor(topic string, partition, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	return int((h.Sum32() + uint32(partition)) % uint32(n))
}

func (c *Consumer) worker(shard <-chan kafka.Message) {
	defer c.workWG.Done()
	for msg := range shard {
		if c.ctx.Err() != nil {
			continue
		}
		c.process(msg)
	}
}

func (c *Consumer) process(msg kafka.Message) {
	handler, ok := c.handlers[msg.Topic]
	if !ok {
		return
	}
	start := time.Now()
	result, done := c.deliver(handler, msg)
	consumerHandleLatency.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
	if !done {
		// Shutting down: nothing later on this partition was committed,
		// so the group resumes from this message after restart.
		return
	}
	consumerHandled.WithLabelValues(msg.Topic, result).Inc()
	if reader := c.readers[msg.Topic]; reader != nil {
		_ = c.commitWithRetry(reader, msg, 3)
	}
}

// deliver returns once the message was handled or parked on the DLQ. Until
// then the owning partition is blocked, so a failure is never skipped by a
// later commit. It reports false only when the consumer is stopping.
func (c *Consumer) deliver(handler MessageHandler, msg kafka.Message) (string, bool) {
	for {
		attempts, err := c.handleWithRetry(handler, msg.Value)
		if err == nil {
			return "ok", true
		}
		if c.ctx.Err() != nil {
			return "error", false
		}
		consumerHandled.WithLabelValues(msg.Topic, "error").Inc()
		c.log.Error("kafka handler failed",
			applogger.String("topic", msg.Topic),
			applogger.Int("partition", msg.Partition),
			applogger.Int64("offset", msg.Offset),
			applogger.Int("attempts", attempts),
			applogger.Error(err),
		)
		if c.dlq != nil && c.writeDLQ(msg, err) == nil {
			return "dlq", true
		}
		if !sleepCtx(c.ctx, c.cfg.BackoffMax) {
			return "error", false
		}
	}
}

// handleWithRetry runs the handler until it succeeds or RetryMax retries
// have been spent. A panicking handler counts as a failed attempt.
func (c *Consumer) handleWithRetry(handler MessageHandler, data []byte) (int, error) {
	var err error
	attempts := 0
	for {
		attempts++
		err = safeHandle(c.ctx, handler, data)
		if err == nil || attempts > c.cfg.RetryMax {
			return attempts, err
		}
		if !sleepCtx(c.ctx, backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempts)) {
			return attempts, err
		}
	}
}

func safeHandle(ctx context.Context, handler MessageHandler, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler for %s: %v", handler.Topic(), r)
		}
	}()
	return handler.Handle(ctx, data)
}

func (c *Consumer) writeDLQ(msg kafka.Message, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.dlq.WriteMessages(ctx, kafka.Message{
		Topic: c.cfg.DLQTopic,
		Key:   msg.Key,
		Value: msg.Value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "source_topic", Value: []byte(msg.Topic)},
			{Key: "error", Value: []byte(cause.Error())},
		},
	})
	if err != nil {
		c.log.Error("kafka dlq write failed", applogger.String("dlq_topic", c.cfg.DLQTopic), applogger.Error(err))
	}
	return err
}

// commitWithRetry commits a single message offset with bounded retries.
func (c *Consumer) commitWithRetry(reader messageReader, msg kafka.Message, max int) error {
	if max <= 0 {
		max = 1
	}
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = reader.CommitMessages(ctx, msg)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(backoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	c.log.Error("kafka commit failed",
		applogger.String("topic", msg.Topic),
		applogger.Int("attempts", max),
		applogger.Error(err),
	)
	return err
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	exp := min
	for i := 1; i < attempt && exp < max; i++ {
		exp *= 2
	}
	if exp > max {
		exp = max
	}
	// jitter up to 50%
	jitter := time.Duration(rand.Int63n(int64(exp)/2 + 1))
	return exp - jitter
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

var (
	consumerQueueDepth    *prometheus.GaugeVec
	consumerHandled       *prometheus.CounterVec
	consumerHandleLatency *prometheus.HistogramVec
	consumerOnce          sync.Once
)

func initConsumerMetrics() {
	consumerOnce.Do(func() {
		consumerQueueDepth = promauto.NewGaugeVec(
			prometheus.GaugeOpts{Name: "cryptodash_kafka_consumer_queue_depth", Help: "Number of messages waiting in consumer queue"},
			[]string{"topic"},
		)
		consumerHandled = promauto.NewCounterVec(
			prometheus.CounterOpts{Name: "cryptodash_kafka_consumer_messages_total", Help: "Handled messages by result"},
			[]string{"topic", "result"},
		)
		consumerHandleLatency = promauto.NewHistogramVec(
			prometheus.HistogramOpts{Name: "cryptodash_kafka_consumer_handle_seconds", Help: "Handling time per message"},
			[]string{"topic"},
		)
	})
}
