package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's verdict on a title. A user holds at most one
// review per title, enforced both here and by a unique index.
type Review struct {
	ID       uuid.UUID `json:"id"`
	TitleID  uuid.UUID `json:"title_id"`
	AuthorID uuid.UUID `json:"author_id"`

	Text  string `json:"text"`
	Score int    `json:"score"` // 1-10

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewWithAuthor is a review joined with its author's username for
// read paths.
type ReviewWithAuthor struct {
	Review
	AuthorUsername string `json:"author_username"`
}

// ScoreLedger is the per-title vote accumulator. It is the single
// source of truth for a title's rating: every review create, score
// update and delete adjusts it in the same transaction.
type ScoreLedger struct {
	TitleID   uuid.UUID `json:"title_id"`
	SumVote   int64     `json:"sum_vote"`
	CountVote int64     `json:"count_vote"`
}

// RatingFromLedger derives the public rating from a ledger.
// Integer division, truncated: 15/2 votes gives 7, not 8.
// A title with no votes has no rating.
func RatingFromLedger(l *ScoreLedger) *int {
	if l == nil || l.CountVote == 0 {
		return nil
	}
	rating := int(l.SumVote / l.CountVote)
	return &rating
}
