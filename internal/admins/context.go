package admins

import "context"

type contextKey struct{}

// ContextWithAdmin stores the authenticated admin on the request context.
func ContextWithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, contextKey{}, admin)
}

// AdminFromContext returns the authenticated admin, if any.
func AdminFromContext(ctx context.Context) (*Admin, bool) {
	admin, ok := ctx.Value(contextKey{}).(*Admin)
	return admin, ok
}
