package model

import "time"

const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
)

type BookSuggestion struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Description    string    `json:"description"`
	CoverURL       string    `json:"cover_url"`
	WorkKey        *string   `json:"work_key,omitempty"`
	Year           *int      `json:"year,omitempty"`
	SuggestedMonth *string   `json:"suggested_month,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type SuggestionListing struct {
	BookSuggestion
	SuggestedByUsername string `json:"suggestedBy"`
}

// WorkKeyMatch reports where a work key is already in use. Type is
// "scheduled" when a book carries the key, "suggested" when only a pending
// suggestion does, and empty otherwise.
type WorkKeyMatch struct {
	Exists      bool    `json:"exists"`
	Type        *string `json:"type"`
	SuggestedBy *string `json:"suggestedBy"`
}

const (
	WorkKeyScheduled = "scheduled"
	WorkKeySuggested = "suggested"
)
