// Package data exposes typed, cached accessors over the backend API.
// Reads go through the keyed cache; writes go straight to the backend and
// invalidate the affected resource kind before their result is returned.
package data

import (
	"context"
	"time"

	"github.com/blrlabs/blr-admin/internal/cache"
	"github.com/blrlabs/blr-admin/pkg/client"
	"github.com/blrlabs/blr-admin/pkg/domain"
)

// Resource kinds used as cache key prefixes and invalidation scopes.
const (
	kindUsers  = "users"
	kindAdmins = "admin-users"
)

// Service is what the views talk to.
type Service struct {
	api   *client.Client
	cache *cache.Cache
}

// NewService creates a Service with per-resource staleness windows.
func NewService(api *client.Client, usersTTL, adminsTTL time.Duration) *Service {
	c := cache.New(usersTTL)
	c.SetTTL(kindUsers, usersTTL)
	c.SetTTL(kindAdmins, adminsTTL)
	return &Service{api: api, cache: c}
}

// Users returns a page of end users, served from cache when fresh.
func (s *Service) Users(ctx context.Context, p client.ListUsersParams) (*domain.UserPage, error) {
	key := cache.Key{Kind: kindUsers, Query: p.CacheKey()}
	return cache.GetAs(ctx, s.cache, key, func(ctx context.Context) (*domain.UserPage, error) {
		return s.api.ListUsers(ctx, p)
	})
}

// Admins returns a page of admin accounts, served from cache when fresh.
func (s *Service) Admins(ctx context.Context, p client.ListAdminsParams) (*domain.AdminPage, error) {
	key := cache.Key{Kind: kindAdmins, Query: p.CacheKey()}
	return cache.GetAs(ctx, s.cache, key, func(ctx context.Context) (*domain.AdminPage, error) {
		return s.api.ListAdminUsers(ctx, p)
	})
}

// GrantPremium grants premium to one user. Success invalidates every
// cached user listing before returning, so the next read refetches.
// Never retried; a duplicate call is a duplicate grant.
func (s *Service) GrantPremium(ctx context.Context, userID string, duration domain.PremiumDuration) domain.Result {
	if err := s.api.GivePremium(ctx, userID, duration); err != nil {
		return domain.Result{Message: client.ErrorMessage(err)}
	}
	s.cache.Invalidate(kindUsers)
	return domain.Result{OK: true, Message: "premium granted for " + duration.Label()}
}

// CreateAdmin creates an operator account. Success invalidates cached
// admin listings before returning. Never retried.
func (s *Service) CreateAdmin(ctx context.Context, username, password string, role domain.Role) domain.Result {
	if err := s.api.CreateAdminUser(ctx, username, password, role); err != nil {
		return domain.Result{Message: client.ErrorMessage(err)}
	}
	s.cache.Invalidate(kindAdmins)
	return domain.Result{OK: true, Message: "admin account created"}
}

// RefreshUsers drops cached user listings so the next read hits the backend.
func (s *Service) RefreshUsers() {
	s.cache.Invalidate(kindUsers)
}

// RefreshAdmins drops cached admin listings.
func (s *Service) RefreshAdmins() {
	s.cache.Invalidate(kindAdmins)
}
