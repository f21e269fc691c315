package social

import (
	"context"

	"community-service/internal/models"
	"community-service/internal/repositories"
)

// Ledger is the symmetric friendship relation. Every pair is put in
// canonical order before it reaches storage, so (a, b) and (b, a) name the
// same row.
type Ledger struct {
	repo repositories.FriendshipRepository
}

func NewLedger(repo repositories.FriendshipRepository) *Ledger {
	return &Ledger{repo: repo}
}

func (l *Ledger) AreFriends(ctx context.Context, a, b int) (bool, error) {
	if a == b {
		return false, nil
	}
	u1, u2 := models.CanonicalPair(a, b)
	return l.repo.Exists(ctx, u1, u2)
}

// Friendships returns the rows the user takes part in.
func (l *Ledger) Friendships(ctx context.Context, userID int) ([]models.Friendship, error) {
	return l.repo.ListForUser(ctx, userID)
}

// Friends returns the ids of everyone userID is friends with.
func (l *Ledger) Friends(ctx context.Context, userID int) ([]int, error) {
	rows, err := l.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.Other(userID))
	}
	return ids, nil
}

// Create returns the friendship for the pair, creating it if needed.
// A user cannot befriend themselves: Create returns nil without error.
func (l *Ledger) Create(ctx context.Context, a, b int) (*models.Friendship, error) {
	if a == b {
		return nil, nil
	}
	u1, u2 := models.CanonicalPair(a, b)
	friendship, err := l.repo.GetOrCreate(ctx, u1, u2)
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// Remove deletes the pair and reports whether it existed.
func (l *Ledger) Remove(ctx context.Context, a, b int) (bool, error) {
	if a == b {
		return false, nil
	}
	u1, u2 := models.CanonicalPair(a, b)
	return l.repo.Delete(ctx, u1, u2)
}
