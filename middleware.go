package adminkit

import (
	"errors"
	"net/http"
)

// Middleware errors.
var (
	// ErrNoActor is returned when a request carries no authenticated admin.
	ErrNoActor = errors.New("adminkit: no actor in request")

	// ErrPermissionDenied is returned when the actor lacks a required
	// permission.
	ErrPermissionDenied = errors.New("adminkit: permission denied")
)

// Middleware provides HTTP middleware for permission checking. It is
// router-agnostic: the returned functions fit chi, gorilla/mux and the
// standard library alike.
type Middleware struct {
	service      *Service
	getActorID   func(*http.Request) int64
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := adminkit.NewMiddleware(service,
//	    adminkit.WithActorExtractor(func(r *http.Request) int64 {
//	        return sessionAdminID(r)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getActorID:   defaultGetActorID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithActorExtractor sets a custom function to extract the acting admin's id
// from a request. Zero means unauthenticated.
func WithActorExtractor(fn func(*http.Request) int64) MiddlewareOption {
	return func(m *Middleware) {
		m.getActorID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetActorID(r *http.Request) int64 {
	return GetActorID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoActor), errors.Is(err, ErrPermissionDenied):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case IsValidation(err):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// RequirePermission creates middleware that requires the acting admin to hold
// a permission matching the given route name.
//
// Example:
//
//	router.With(mw.RequirePermission("orders.cancel")).
//	    Post("/orders/{orderID}/cancel", cancelOrderHandler)
func (m *Middleware) RequirePermission(routeName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := m.getActorID(r)
			if actorID == 0 {
				m.errorHandler(w, r, ErrNoActor)
				return
			}

			if !m.service.HasPermission(r.Context(), actorID, routeName) {
				m.errorHandler(w, r, ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission creates middleware that requires any of the given
// route names to be permitted.
//
// Example:
//
//	router.With(mw.RequireAnyPermission("orders.index", "orders.export")).
//	    Get("/orders", listOrdersHandler)
func (m *Middleware) RequireAnyPermission(routeNames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := m.getActorID(r)
			if actorID == 0 {
				m.errorHandler(w, r, ErrNoActor)
				return
			}

			patterns, err := m.service.GetAdminPermissions(r.Context(), actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			for _, routeName := range routeNames {
				if m.service.Matcher().MatchAny(patterns, routeName) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.errorHandler(w, r, ErrPermissionDenied)
		})
	}
}

// InjectAuditContext creates middleware that captures request metadata and the
// actor id into the context, so audit rows written further down the call
// chain carry method, path, client address and user agent.
//
// Example:
//
//	router.Use(mw.InjectAuditContext())
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}

			ctx = WithRequestInfo(ctx, RequestInfo{
				Method:    r.Method,
				Path:      r.URL.Path,
				IP:        ip,
				UserAgent: r.UserAgent(),
			})

			if actorID := m.getActorID(r); actorID != 0 {
				ctx = WithActorID(ctx, actorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
