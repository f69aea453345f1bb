package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// HeaderName carries the correlation ID across process boundaries.
const HeaderName = "X-Correlation-Id"

type correlationKey struct{}

// ExtractCorrelationID fetches a correlation ID from the context if present.
func ExtractCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(correlationKey{}).(string); ok {
		return val
	}
	return ""
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// EnsureCorrelationID returns ctx carrying a correlation ID. An inbound
// value is adopted only when it parses as a ULID; otherwise the one
// already on ctx is kept, or a new one is minted.
func EnsureCorrelationID(ctx context.Context, inbound string) (context.Context, string) {
	if cid, ok := normalize(inbound); ok {
		return ContextWithCorrelationID(ctx, cid), cid
	}
	cid := ExtractCorrelationID(ctx)
	if cid == "" {
		cid = ulid.Make().String()
	}
	return ContextWithCorrelationID(ctx, cid), cid
}

func normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
