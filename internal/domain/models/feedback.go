package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackUp   = "up"
	FeedbackDown = "down"
)

const MaxFeedbackComment = 500

// FeedbackRecord is an immutable vote on one dashboard section.
type FeedbackRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Type      string    `json:"type"`
	Section   string    `json:"section"`
	ContentID *string   `json:"contentId,omitempty"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackEvent is the analytics projection of a FeedbackRecord.
// The comment body stays in Postgres.
type FeedbackEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Section    string    `json:"section"`
	ContentID  string    `json:"contentId,omitempty"`
	HasComment bool      `json:"hasComment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewFeedbackEvent(r *FeedbackRecord) FeedbackEvent {
	ev := FeedbackEvent{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		Type:       r.Type,
		Section:    r.Section,
		HasComment: r.Comment != nil && *r.Comment != "",
		CreatedAt:  r.CreatedAt,
	}
	if r.ContentID != nil {
		ev.ContentID = *r.ContentID
	}
	return ev
}
