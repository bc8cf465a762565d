package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "CryptoDash/pkg/logger"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

type fakeReader struct {
	in        chan kafka.Message
	mu        sync.Mutex
	committed []kafka.Message
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{in: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.in <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.in:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.committed))
	for _, m := range r.committed {
		out = append(out, m.Offset)
	}
	return out
}

func (r *fakeReader) commitsByPartition() map[int][]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int][]int64)
	for _, m := range r.committed {
		out[m.Partition] = append(out[m.Partition], m.Offset)
	}
	return out
}

type flakyHandler struct {
	topic    string
	failures int32
	calls    atomic.Int32
	panics   bool
}

func (h *flakyHandler) Topic() string { return h.topic }

func (h *flakyHandler) Handle(_ context.Context, _ []byte) error {
	n := h.calls.Add(1)
	if n <= h.failures {
		if h.panics {
			panic("boom")
		}
		return errors.New("sink unavailable")
	}
	return nil
}

func testConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		GroupID:     "test",
		WorkerCount: 2,
		BufferSize:  4,
		RetryMax:    2,
		BackoffMin:  time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
		DLQTopic:    "events.dlq",
	}
}

func runConsumer(t *testing.T, cfg *ConsumerConfig, h MessageHandler, reader *fakeReader, dlq messageWriter) {
	t.Helper()
	c := newConsumer(cfg, applogger.Nop(), func(string) messageReader { return reader }, dlq)
	c.RegisterHandler(h)
	require.NoError(t, c.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, c.Stop(ctx))
	})
}

func TestProducerPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "feedback.events", []byte("k1"), map[string]string{"section": "meme"}))
	require.NoError(t, p.Publish(context.Background(), "feedback.events", nil, "raw"))

	msgs := w.written()
	require.Len(t, msgs, 2)
	assert.Equal(t, "feedback.events", msgs[0].Topic)
	assert.Equal(t, []byte("k1"), msgs[0].Key)
	var body map[string]string
	require.NoError(t, json.Unmarshal(msgs[0].Value, &body))
	assert.Equal(t, "meme", body["section"])
	assert.Equal(t, []byte("raw"), msgs[1].Value)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducerWrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, "gzip")

	err := p.PublishBatch(context.Background(), "t", []Message{{Value: "a"}, {Value: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka write t")
	assert.NoError(t, p.PublishBatch(context.Background(), "t", nil))
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
	_, err = NewConsumer(nil)
	assert.Error(t, err)
}

func TestConsumerRetriesThenCommits(t *testing.T) {
	reader := newFakeReader(kafka.Message{Offset: 7, Value: []byte(`{}`)})
	h := &flakyHandler{topic: "events", failures: 2}
	dlq := &fakeWriter{}
	runConsumer(t, testConsumerConfig(), h, reader, dlq)

	require.Eventually(t, func() bool { return len(reader.commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), h.calls.Load())
	assert.Equal(t, []int64{7}, reader.commits())
	assert.Empty(t, dlq.written())
}

func TestConsumerParksPoisonMessageOnDLQ(t *testing.T) {
	reader := newFakeReader(kafka.Message{Offset: 3, Key: []byte("k"), Value: []byte(`bad`)})
	h := &flakyHandler{topic: "events", failures: 100, panics: true}
	dlq := &fakeWriter{}
	runConsumer(t, testConsumerConfig(), h, reader, dlq)

	require.Eventually(t, func() bool { return len(dlq.written()) == 1 }, time.Second, 5*time.Millisecond)
	parked := dlq.written()[0]
	assert.Equal(t, "events.dlq", parked.Topic)
	assert.Equal(t, []byte(`bad`), parked.Value)
	assert.Equal(t, "source_topic", parked.Headers[0].Key)
	assert.Equal(t, []byte("events"), parked.Headers[0].Value)

	require.Eventually(t, func() bool { return len(reader.commits()) == 1 }, time.Second, 5*time.Millisecond)
	// RetryMax=2 means three attempts in total.
	assert.Equal(t, int32(3), h.calls.Load())
}

func TestConsumerWithoutDLQBlocksPartitionUntilHandled(t *testing.T) {
	cfg := testConsumerConfig()
	cfg.DLQTopic = ""
	reader := newFakeReader(kafka.Message{Offset: 1}, kafka.Message{Offset: 2})
	// RetryMax=2 gives three attempts per round; the fourth call succeeds.
	h := &flakyHandler{topic: "events", failures: 3}
	runConsumer(t, cfg, h, reader, nil)

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1, 2}, reader.commits())
	assert.Equal(t, int32(5), h.calls.Load())
}

func TestConsumerWithoutDLQNeverCommitsPastFailure(t *testing.T) {
	cfg := testConsumerConfig()
	cfg.DLQTopic = ""
	reader := newFakeReader(kafka.Message{Offset: 1}, kafka.Message{Offset: 2})
	h := &flakyHandler{topic: "events", failures: 1 << 30}
	c := newConsumer(cfg, applogger.Nop(), func(string) messageReader { return reader }, nil)
	c.RegisterHandler(h)
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return h.calls.Load() > 6 }, time.Second, 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Stop(ctx))

	assert.Empty(t, reader.commits())
}

type slowHandler struct {
	topic string
	mu    sync.Mutex
	seen  map[int][]int64
}

func (h *slowHandler) Topic() string { return h.topic }

func (h *slowHandler) Handle(_ context.Context, data []byte) error {
	var m struct {
		Partition int   `json:"p"`
		Offset    int64 `json:"o"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	time.Sleep(time.Duration(rand.Intn(2)) * time.Millisecond)
	h.mu.Lock()
	h.seen[m.Partition] = append(h.seen[m.Partition], m.Offset)
	h.mu.Unlock()
	return nil
}

func TestConsumerCommitsEachPartitionInOrder(t *testing.T) {
	cfg := testConsumerConfig()
	cfg.WorkerCount = 3
	var msgs []kafka.Message
	for off := int64(0); off < 20; off++ {
		for p := 0; p < 4; p++ {
			body, _ := json.Marshal(map[string]int64{"p": int64(p), "o": off})
			msgs = append(msgs, kafka.Message{Partition: p, Offset: off, Value: body})
		}
	}
	reader := newFakeReader(msgs...)
	h := &slowHandler{topic: "events", seen: make(map[int][]int64)}
	runConsumer(t, cfg, h, reader, &fakeWriter{})

	require.Eventually(t, func() bool { return len(reader.commits()) == len(msgs) }, 2*time.Second, 5*time.Millisecond)
	want := make([]int64, 20)
	for i := range want {
		want[i] = int64(i)
	}
	commits := reader.commitsByPartition()
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := 0; p < 4; p++ {
		assert.Equal(t, want, commits[p], "partition %d commits", p)
		assert.Equal(t, want, h.seen[p], "partition %d handling", p)
	}
}

func TestShardForIsStable(t *testing.T) {
	assert.Equal(t, 0, shardFor("events", 5, 1))
	for p := 0; p < 16; p++ {
		s := shardFor("events", p, 3)
		assert.Equal(t, s, shardFor("events", p, 3))
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, 3)
	}
}

func TestStartWithoutHandlers(t *testing.T) {
	c := newConsumer(testConsumerConfig(), nil, func(string) messageReader { return newFakeReader() }, nil)
	assert.ErrorIs(t, c.Start(), ErrNoHandler)
}

func TestBackoffWithJitterBounds(t *testing.T) {
	min, max := 10*time.Millisecond, 80*time.Millisecond
	for attempt := 1; attempt <= 10; attempt++ {
		want := min << (attempt - 1)
		if want > max {
			want = max
		}
		for i := 0; i < 20; i++ {
			d := backoffWithJitter(min, max, attempt)
			assert.LessOrEqual(t, d, want)
			assert.GreaterOrEqual(t, d, want/2)
		}
	}
}
