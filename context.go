package adminkit

import (
	"context"
)

// Context keys for request metadata.
type contextKey string

const (
	contextKeyMethod    contextKey = "adminkit:method"
	contextKeyPath      contextKey = "adminkit:path"
	contextKeyRouteName contextKey = "adminkit:route_name"
	contextKeyIPAddress contextKey = "adminkit:ip_address"
	contextKeyUserAgent contextKey = "adminkit:user_agent"
	contextKeyActorID   contextKey = "adminkit:actor_id"
)

// RequestInfo carries the HTTP-level metadata of the call that triggered a
// mutation. It exists purely for the audit trail; no business decision ever
// reads it. Actor identity, by contrast, is an explicit parameter on every
// mutating operation and never read from ambient state.
type RequestInfo struct {
	Method    string
	Path      string
	RouteName string
	IP        string
	UserAgent string
}

// WithRequestInfo attaches request metadata to the context for audit records.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	if info.Method != "" {
		ctx = context.WithValue(ctx, contextKeyMethod, info.Method)
	}
	if info.Path != "" {
		ctx = context.WithValue(ctx, contextKeyPath, info.Path)
	}
	if info.RouteName != "" {
		ctx = context.WithValue(ctx, contextKeyRouteName, info.RouteName)
	}
	if info.IP != "" {
		ctx = context.WithValue(ctx, contextKeyIPAddress, info.IP)
	}
	if info.UserAgent != "" {
		ctx = context.WithValue(ctx, contextKeyUserAgent, info.UserAgent)
	}
	return ctx
}

// GetRequestInfo extracts request metadata from the context. Unset fields are
// empty strings.
func GetRequestInfo(ctx context.Context) RequestInfo {
	return RequestInfo{
		Method:    stringFromContext(ctx, contextKeyMethod),
		Path:      stringFromContext(ctx, contextKeyPath),
		RouteName: stringFromContext(ctx, contextKeyRouteName),
		IP:        stringFromContext(ctx, contextKeyIPAddress),
		UserAgent: stringFromContext(ctx, contextKeyUserAgent),
	}
}

// WithActorID attaches the authenticated admin id to the context. The
// middleware uses this to resolve the actor for permission checks; service
// mutations still take the actor as an explicit parameter.
func WithActorID(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, contextKeyActorID, actorID)
}

// GetActorID retrieves the actor id from context. Returns 0 if not set.
func GetActorID(ctx context.Context) int64 {
	if v := ctx.Value(contextKeyActorID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
