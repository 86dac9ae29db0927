package domain

import "time"

// ReactionKind separates deal votes from comment likes in the reactions
// collection.
type ReactionKind string

const (
	ReactionDealVote    ReactionKind = "deal_vote"
	ReactionCommentLike ReactionKind = "comment_like"
)

// Reaction is one user's vote or like on a target. Value is +1 or -1 for
// deal votes and always +1 for likes.
type Reaction struct {
	Kind      ReactionKind
	TargetID  string
	UserID    string
	Value     int
	CreatedAt time.Time
}

// VoteDelta returns the like/dislike counter changes when a user's vote moves
// from prev (0 when none) to next.
func VoteDelta(prev, next int) (likes, dislikes int64) {
	switch prev {
	case 1:
		likes--
	case -1:
		dislikes--
	}
	switch next {
	case 1:
		likes++
	case -1:
		dislikes++
	}
	return likes, dislikes
}
