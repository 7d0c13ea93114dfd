package server

import (
	"context"

	"github.com/wananchi-labs/uwazi/internal/cache"
)

// invalidateEntity drops every cached view an entity mutation can change:
// the entity's own views, the listing pages of its kind, and the cross-entity
// aggregates (leaderboard, trending).
func (s *Server) invalidateEntity(ctx context.Context, targetType, id string) {
	s.swr.InvalidatePrefix(ctx, cache.EntityPrefix(targetType, id))
	s.swr.InvalidatePrefix(ctx, cache.ListPrefix(targetType))
	for _, prefix := range cache.AggregatePrefixes() {
		s.swr.InvalidatePrefix(ctx, prefix)
	}
}

// invalidateType drops listing and aggregate caches without touching entity
// detail views, for mutations that only affect collections.
func (s *Server) invalidateType(ctx context.Context, targetType string) {
	s.swr.InvalidatePrefix(ctx, cache.ListPrefix(targetType))
	for _, prefix := range cache.AggregatePrefixes() {
		s.swr.InvalidatePrefix(ctx, prefix)
	}
}
