package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the request id in both directions.
const Header = "x-request-id"

type contextKey struct{}

func Generate() string {
	return uuid.New().String()
}

func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns "" when no id was attached.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(contextKey{}).(string); ok {
		return requestID
	}
	return ""
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}

// Inject copies the id bound to ctx onto an outgoing request, generating one if absent.
func Inject(ctx context.Context, req *http.Request) {
	id := FromContext(ctx)
	if id == "" {
		id = Generate()
	}
	req.Header.Set(Header, id)
}
