package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateSessionCache drops every cached view of a session, including
// aggregate stats, after enrollment or gate changes
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, sessionID string) {
	SafeDelete(ctx, cm.Session, fmt.Sprintf("id:%s", sessionID))
	SafeInvalidatePattern(ctx, cm.Session, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("session:%s:*", sessionID))
}

// InvalidateUserCache drops cached user lookups after profile mutations
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%s", userID))
	SafeInvalidatePattern(ctx, cm.User, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("user:%s*", userID))
}

// InvalidateTemplateCache drops cached test/checklist/feedback templates
func InvalidateTemplateCache(ctx context.Context, cm *CacheManager, kind, templateID string) {
	SafeDelete(ctx, cm.Template, fmt.Sprintf("%s:id:%s", kind, templateID))
	SafeInvalidatePattern(ctx, cm.Template, fmt.Sprintf("%s:list:*", kind))
}
