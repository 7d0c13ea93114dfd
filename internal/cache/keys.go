package cache

import (
	"strconv"
	"strings"
)

// Key namespaces follow `<type>:<id>:<view>` for entity views and
// `<type>:list:<params>` for listings, so a whole namespace can be dropped by
// prefix on mutation.
func DetailKey(targetType, id string) string {
	return targetType + ":" + id + ":detail"
}

func ListKey(targetType string, params ...string) string {
	parts := append([]string{targetType, "list"}, params...)
	return strings.Join(parts, ":")
}

func LeaderboardKey(targetType, categoryID string, limit int) string {
	return strings.Join([]string{"leaderboard", targetType, categoryID, strconv.Itoa(limit)}, ":")
}

func TrendingKey(targetType string, limit int) string {
	return strings.Join([]string{"trending", targetType, strconv.Itoa(limit)}, ":")
}

// EntityPrefix matches every cached view of one entity.
func EntityPrefix(targetType, id string) string {
	return targetType + ":" + id + ":"
}

// ListPrefix matches every cached listing page of one entity type.
func ListPrefix(targetType string) string {
	return targetType + ":list:"
}

const aggregatePrefixLeaderboard = "leaderboard:"
const aggregatePrefixTrending = "trending:"

// AggregatePrefixes covers the cross-entity views that any rating or entity
// mutation can change.
func AggregatePrefixes() []string {
	return []string{aggregatePrefixLeaderboard, aggregatePrefixTrending}
}

func viewFromKey(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) == 0 {
		return "unknown"
	}
	if parts[0] == "leaderboard" || parts[0] == "trending" {
		return parts[0]
	}
	if len(parts) >= 2 && parts[1] == "list" {
		return "list"
	}
	return "detail"
}
