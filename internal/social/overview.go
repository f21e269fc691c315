package social

import (
	"context"
	"fmt"
	"log"
	"time"

	"community-service/internal/models"
)

type FriendEntry struct {
	User        models.User `json:"user"`
	DisplayName string      `json:"display_name"`
	Since       time.Time   `json:"since"`
}

type PendingEntry struct {
	Request     models.FriendRequest `json:"request"`
	User        models.User          `json:"user"`
	DisplayName string               `json:"display_name"`
}

// Overview is the friends page for one user: friends plus pending requests
// in both directions.
type Overview struct {
	Friends  []FriendEntry  `json:"friends"`
	Incoming []PendingEntry `json:"incoming"`
	Outgoing []PendingEntry `json:"outgoing"`
}

func (w *Workflow) Overview(ctx context.Context, user models.User) (Overview, error) {
	friendships, err := w.ledger.Friendships(ctx, user.ID)
	if err != nil {
		return Overview{}, fmt.Errorf("list friendships: %w", err)
	}
	incoming, err := w.requests.ListIncomingPending(ctx, user.ID)
	if err != nil {
		return Overview{}, fmt.Errorf("list incoming requests: %w", err)
	}
	outgoing, err := w.requests.ListOutgoingPending(ctx, user.ID)
	if err != nil {
		return Overview{}, fmt.Errorf("list outgoing requests: %w", err)
	}

	out := Overview{
		Friends:  make([]FriendEntry, 0, len(friendships)),
		Incoming: make([]PendingEntry, 0, len(incoming)),
		Outgoing: make([]PendingEntry, 0, len(outgoing)),
	}
	for _, f := range friendships {
		friend, err := w.users.GetUser(ctx, f.Other(user.ID))
		if err != nil {
			log.Printf("friends overview: skip user_id=%d err=%v", f.Other(user.ID), err)
			continue
		}
		out.Friends = append(out.Friends, FriendEntry{User: friend, DisplayName: w.names.For(ctx, friend), Since: f.CreatedAt})
	}
	for _, req := range incoming {
		sender := w.lookup(ctx, req.FromUserID)
		out.Incoming = append(out.Incoming, PendingEntry{Request: req, User: sender, DisplayName: w.names.For(ctx, sender)})
	}
	for _, req := range outgoing {
		recipient := w.lookup(ctx, req.ToUserID)
		out.Outgoing = append(out.Outgoing, PendingEntry{Request: req, User: recipient, DisplayName: w.names.For(ctx, recipient)})
	}
	return out, nil
}
