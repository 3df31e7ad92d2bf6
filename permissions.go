package adminkit

import (
	"strings"
)

// PermissionMatcher resolves whether a granted route-name pattern covers a
// requested action identifier.
//
// Exactly three pattern shapes grant anything:
//   - "users.index" matches only "users.index" (exact)
//   - "*" matches every action (universal grant)
//   - "users.*" matches "users.index", "users.roles.show", ... — the
//     requested action must continue with "." after the stripped prefix
//
// Anything else is an exact literal. In particular "users*" (no dot before
// the star) is not a wildcard and matches nothing of realistic shape.
type PermissionMatcher struct{}

// NewPermissionMatcher creates a new PermissionMatcher.
func NewPermissionMatcher() *PermissionMatcher {
	return &PermissionMatcher{}
}

// Match checks if a granted pattern covers a requested action.
//
// Examples:
//
//	Match("*", "orders.cancel")            // true
//	Match("orders.*", "orders.cancel")     // true
//	Match("orders.*", "order.cancel")      // false
//	Match("users.index", "users.index")    // true
//	Match("users.index", "users.show")     // false
func (pm *PermissionMatcher) Match(pattern, action string) bool {
	if pattern == action {
		return true
	}

	if pattern == "*" {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(action, prefix+".")
	}

	return false
}

// MatchAny checks if any of the patterns covers the requested action.
// An empty pattern set grants nothing.
func (pm *PermissionMatcher) MatchAny(patterns []string, action string) bool {
	for _, pattern := range patterns {
		if pm.Match(pattern, action) {
			return true
		}
	}
	return false
}

// Validate checks that a route-name pattern is well formed: "*", or a
// dot-separated identifier path whose last segment may be "*".
func (pm *PermissionMatcher) Validate(pattern string) error {
	if pattern == "" {
		return validationError("route_name", "pattern cannot be empty")
	}

	if pattern == "*" {
		return nil
	}

	parts := strings.Split(pattern, ".")
	for i, part := range parts {
		if part == "" {
			return validationError("route_name", "pattern segments cannot be empty")
		}
		if part == "*" {
			if i != len(parts)-1 {
				return validationError("route_name", "wildcard is only allowed as the last segment")
			}
			continue
		}
		for _, c := range part {
			if !isRouteNameChar(c) {
				return validationError("route_name", "pattern contains invalid character")
			}
		}
	}

	return nil
}

func isRouteNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}

// DefaultMatcher is the package-level matcher instance.
var DefaultMatcher = NewPermissionMatcher()

// MatchPermission is a convenience function using the default matcher.
func MatchPermission(pattern, action string) bool {
	return DefaultMatcher.Match(pattern, action)
}

// MatchAnyPermission is a convenience function using the default matcher.
func MatchAnyPermission(patterns []string, action string) bool {
	return DefaultMatcher.MatchAny(patterns, action)
}
