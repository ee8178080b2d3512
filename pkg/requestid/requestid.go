package requestid

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/google/uuid"
)

// Header carries the request id to the storefront API.
const Header = "X-Request-Id"

type contextKey struct{}

// FromContext returns the request id, or "" when none was attached.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}

// With attaches id to ctx and, when logg is set, to the logger fields.
func With(ctx context.Context, logg *logger.Logger, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, contextKey{}, id)
	if logg != nil {
		ctx = logg.WithRequestID(ctx, id)
	}
	return ctx
}

// New attaches a fresh random request id.
func New(ctx context.Context, logg *logger.Logger) context.Context {
	return With(ctx, logg, uuid.NewString())
}
