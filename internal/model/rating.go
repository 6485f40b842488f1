package model

import "time"

const (
	MinRating = 0
	MaxRating = 10
)

type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}
