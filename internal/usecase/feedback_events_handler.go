package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
)

// FeedbackEventsHandler moves feedback events from Kafka into the analytics sink.
type FeedbackEventsHandler struct {
	topic   string
	sink    drepo.FeedbackSink
	metrics drepo.Metrics
}

func NewFeedbackEventsHandler(topic string, sink drepo.FeedbackSink, metrics drepo.Metrics) *FeedbackEventsHandler {
	return &FeedbackEventsHandler{topic: topic, sink: sink, metrics: metrics}
}

func (h *FeedbackEventsHandler) Topic() string { return h.topic }

func (h *FeedbackEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.FeedbackEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode feedback event: %w", err)
	}
	if ev.ID == "" || ev.Section == "" {
		h.metrics.RecordError("consumer_invalid")
		return fmt.Errorf("feedback event missing id or section")
	}
	if err := h.sink.StoreBatch(ctx, []models.FeedbackEvent{ev}); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}
