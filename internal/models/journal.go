package models

import "time"

// JournalEntry is an append-only record of agent activity.
type JournalEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	Agent     string    `json:"agent" badgerhold:"index"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at" badgerhold:"index"`
}
