package base

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/skybreak/forcepool/pkg/core"
)

const instrumentationName = "github.com/skybreak/forcepool/internal/base"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	allocations  metric.Int64Counter
	shortfall    metric.Int64Counter
	commissioned metric.Int64Counter
	losses       metric.Int64Counter
}

// newInstruments uses the global OTel meter (no-op if not configured).
func newInstruments() (*instruments, error) {
	m := meter()
	inst := &instruments{}

	var err error
	inst.allocations, err = m.Int64Counter(
		"forcepool.allocations",
		metric.WithDescription("Units handed out by allocation queries"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating allocations counter: %w", err)
	}

	inst.shortfall, err = m.Int64Counter(
		"forcepool.shortfall",
		metric.WithDescription("Units requested but not available"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shortfall counter: %w", err)
	}

	inst.commissioned, err = m.Int64Counter(
		"forcepool.commissioned",
		metric.WithDescription("Units added to base inventories"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commissioned counter: %w", err)
	}

	inst.losses, err = m.Int64Counter(
		"forcepool.losses",
		metric.WithDescription("Units removed from base inventories"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating losses counter: %w", err)
	}

	return inst, nil
}

func (b *Base) recordAllocation(a Allocation) {
	attrs := metric.WithAttributes(
		attribute.String("controlPoint", b.name),
		attribute.String("task", string(a.Task)),
	)
	ctx := context.Background()
	b.inst.allocations.Add(ctx, int64(a.Allocated()), attrs)
	if short := a.Shortfall(); short > 0 {
		b.inst.shortfall.Add(ctx, int64(short), attrs)
	}
}

func (b *Base) recordInventoryChange(counter metric.Int64Counter, c core.Category, n int) {
	counter.Add(context.Background(), int64(n), metric.WithAttributes(
		attribute.String("controlPoint", b.name),
		attribute.String("category", c.String()),
	))
}
