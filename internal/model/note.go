package model

import "time"

// Note is a free-text annotation on a food item, written by its owner.
type Note struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"itemId"`
	Text        string    `json:"text"`
	AuthorEmail string    `json:"authorEmail"`
	PostedAt    time.Time `json:"postedAt"`
}
