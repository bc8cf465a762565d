package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"CryptoDash/internal/domain/models"
	pkgkafka "CryptoDash/pkg/kafka"
)

// CHFeedbackSink writes feedback events into ClickHouse for reporting.
type CHFeedbackSink struct {
	db    *sql.DB
	table string
}

func NewCHFeedbackSink(db *sql.DB, table string) *CHFeedbackSink {
	if table == "" {
		table = "feedback_events"
	}
	return &CHFeedbackSink{db: db, table: table}
}

func (s *CHFeedbackSink) StoreBatch(ctx context.Context, events []models.FeedbackEvent) error {
	if len(events) == 0 {
		return nil
	}
	// Multi-row VALUES keeps round-trips down; chunked to bound statement size.
	const chunkSize = 1000
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}
		q, args := buildFeedbackInsert(s.table, events[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert feedback events: %w", err)
		}
	}
	return nil
}

func (s *CHFeedbackSink) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func buildFeedbackInsert(table string, events []models.FeedbackEvent) (string, []interface{}) {
	values := make([]string, 0, len(events))
	args := make([]interface{}, 0, len(events)*7)
	for _, ev := range events {
		if ev.ID == "" || ev.Section == "" {
			continue
		}
		var hasComment uint8
		if ev.HasComment {
			hasComment = 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, ev.ID, ev.UserID, ev.Type, ev.Section, ev.ContentID, hasComment, ev.CreatedAt)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (id, user_id, type, section, content_id, has_comment, created_at) VALUES %s",
		table, strings.Join(values, ","))
	return q, args
}

// KafkaFeedbackPublisher emits feedback events keyed by user, so one user's
// votes stay ordered on a partition.
type KafkaFeedbackPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaFeedbackPublisher(producer *pkgkafka.Producer, topic string) *KafkaFeedbackPublisher {
	return &KafkaFeedbackPublisher{producer: producer, topic: topic}
}

func (p *KafkaFeedbackPublisher) Publish(ctx context.Context, ev models.FeedbackEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.UserID), ev)
}

func (p *KafkaFeedbackPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
