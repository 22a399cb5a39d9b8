package service

import (
	"context"

	"github.com/aussiebroadwan/vault/internal/vault/domain"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/pkg/idx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
)

// RecentActivityLimit caps the activity feed.
const RecentActivityLimit = 50

// ClientInfo describes the caller of a request for the activity log.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

// WithClientInfo attaches info to ctx.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

func clientInfoFromContext(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

type ActivityService struct {
	Store store.Store
	Clock Clock
}

// Record appends an entry for accountID. Failures are logged and otherwise
// ignored; a nil service records nothing.
func (s *ActivityService) Record(ctx context.Context, accountID string, action domain.ActivityAction, description string) {
	if s == nil {
		return
	}

	now := s.Clock.Now()
	info := clientInfoFromContext(ctx)
	entry := domain.ActivityEntry{
		ID:          idx.NewAt(now).String(),
		AccountID:   accountID,
		Action:      action,
		Description: description,
		IP:          info.IP,
		UserAgent:   info.UserAgent,
		CreatedAt:   now,
	}

	if err := s.Store.Activity().CreateActivity(ctx, entry); err != nil {
		slogx.FromContext(ctx).Error("failed to record activity",
			"account_id", accountID,
			"action", action,
			"err", err,
		)
	}
}

// Recent returns the newest RecentActivityLimit entries for accountID.
func (s *ActivityService) Recent(ctx context.Context, accountID string) ([]domain.ActivityEntry, error) {
	entries, err := s.Store.Activity().ListRecentActivity(ctx, accountID, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	return entries, nil
}
