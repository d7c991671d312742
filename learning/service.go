// Package learning is the progress and scoring core: it reads the content hierarchy with a
// user's completion ledger, derives the current position, and applies answer submissions,
// heart refills and course selection to per-user state.
package learning

import (
	"context"
	"strings"

	"lingo/apierr"
	"lingo/identity"
	"lingo/logger"
	"lingo/repositories"
	"lingo/viewcache"
)

// EnrollmentNotifier is told about first-ever enrollments. Delivery is best effort.
type EnrollmentNotifier interface {
	NotifyEnrollment(ctx context.Context, email, name, courseTitle string) error
}

// Service holds no per-user state between calls; the store is the only shared mutable resource.
type Service struct {
	repos    *repositories.Repositories
	views    viewcache.Cache
	profiles identity.ProfileSource
	notifier EnrollmentNotifier
	log      *logger.Logger
}

// New wires the core. views, profiles and notifier may be nil.
func New(
	repos *repositories.Repositories,
	views viewcache.Cache,
	profiles identity.ProfileSource,
	notifier EnrollmentNotifier,
	log *logger.Logger,
) *Service {
	if views == nil {
		views = viewcache.Noop{}
	}
	return &Service{
		repos:    repos,
		views:    views,
		profiles: profiles,
		notifier: notifier,
		log:      log.With("service", "LearningService"),
	}
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apierr.ErrUnauthenticated
	}
	return userID, nil
}

// afterMutation drops everything a committed mutation may have made stale.
func (s *Service) afterMutation(ctx context.Context, userID string, leaderboard bool) {
	RequestCacheFrom(ctx).Clear()
	if err := s.views.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("view cache invalidate failed", "user_id", userID, "error", err)
	}
	if leaderboard {
		if err := s.views.InvalidateLeaderboard(ctx); err != nil {
			s.log.Warn("leaderboard cache invalidate failed", "error", err)
		}
	}
}
