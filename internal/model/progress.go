package model

import (
	"time"
)

// ProgressEntry is an append-only note on an in-progress goal. Entries are
// never edited or removed.
type ProgressEntry struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	Note      string    `db:"note" json:"note"`
	Percent   *int      `db:"percent" json:"percent,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
