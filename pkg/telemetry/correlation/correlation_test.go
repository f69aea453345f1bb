package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationIDMintsWhenMissing(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background(), "")
	assert.NotEmpty(t, cid)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))
}

func TestEnsureCorrelationIDAdoptsValidInbound(t *testing.T) {
	inbound := ulid.Make().String()
	_, cid := EnsureCorrelationID(context.Background(), " "+inbound+" ")
	assert.Equal(t, inbound, cid)
}

func TestEnsureCorrelationIDIgnoresGarbage(t *testing.T) {
	existing := ContextWithCorrelationID(context.Background(), "run-1")
	_, cid := EnsureCorrelationID(existing, "not-a-ulid")
	assert.Equal(t, "run-1", cid)
}

func TestExtractFromNilContext(t *testing.T) {
	assert.Empty(t, ExtractCorrelationID(nil))
}
