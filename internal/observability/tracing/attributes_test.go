package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsResidentData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("household.id", "1"),
		attribute.String("owner.email", "a@b.c"),
		attribute.String("search.query", "101"),
		attribute.Int("search.query_length", 3),
		attribute.Int("results", 2),
	)

	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		keys = append(keys, string(attr.Key))
	}
	assert.Equal(t, []string{"household.id", "results"}, keys)
}

func TestSafeErrorKeepsTypeOnly(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.Equal(t, "*errors.errorString", SafeError(errors.New("owner Jane Doe")).Error())
}
