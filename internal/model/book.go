package model

import "time"

const (
	BookStatusRead   = "read"
	BookStatusUnread = "unread"

	// DateTBD is the placeholder schedule for a book without a date yet.
	DateTBD = "TBD"
)

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url"`
	WorkKey     *string   `json:"work_key,omitempty"`
	Status      string    `json:"status"`
	ReadOn      string    `json:"read_on"`
	SuggestedBy *int64    `json:"suggested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookListing is a book as shown in the club timeline: the mean rating is
// absent for books nobody has rated.
type BookListing struct {
	Book
	Rating              *float64 `json:"rating,omitempty"`
	SuggestedByUsername *string  `json:"suggestedBy,omitempty"`
}
