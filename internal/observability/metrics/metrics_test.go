package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("kind", "payments"),
		attribute.String("household_id", "456"),
		attribute.String("outcome", "ok"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("kind"), attrs[0].Key)
	assert.Equal(t, attribute.Key("outcome"), attrs[1].Key)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordOverdueTransitions(ctx, "payments", "http", 3)
		m.RecordPaymentRecorded(ctx, "utilities")
		m.RecordSearch(ctx, "ok")
		m.RecordBalanceRead(ctx)
	})
}

func TestNewOnNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordOverdueTransitions(context.Background(), "payments", "scheduler", 2)
	})
}
