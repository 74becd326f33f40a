package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrumentation scope shared by the meter and the tracer.
const Scope = "github.com/katalvlaran/swarmrole"

// Metrics holds the simulation instruments. A nil *Metrics records nothing.
type Metrics struct {
	steps     metric.Int64Counter
	delivered metric.Int64Counter
	conflicts metric.Int64Counter
	runs      metric.Int64Counter
	confirmed metric.Int64Gauge
}

// NewMetrics creates the instruments on meter, or on the global meter
// provider when meter is nil.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(Scope)
	}
	var (
		m   Metrics
		err error
	)
	if m.steps, err = meter.Int64Counter("swarmrole.steps",
		metric.WithDescription("Synchronous simulation steps executed")); err != nil {
		return nil, err
	}
	if m.delivered, err = meter.Int64Counter("swarmrole.messages.delivered",
		metric.WithDescription("Messages delivered to agent inboxes")); err != nil {
		return nil, err
	}
	if m.conflicts, err = meter.Int64Counter("swarmrole.conflicts",
		metric.WithDescription("Tie-breaks lost by an agent")); err != nil {
		return nil, err
	}
	if m.runs, err = meter.Int64Counter("swarmrole.runs",
		metric.WithDescription("Finished runs by outcome")); err != nil {
		return nil, err
	}
	if m.confirmed, err = meter.Int64Gauge("swarmrole.agents.confirmed",
		metric.WithDescription("Agents in CONFIRMED state after the last step")); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordStep adds one step with its delivery and conflict counts.
func (m *Metrics) RecordStep(ctx context.Context, delivered, conflicts, confirmed int) {
	if m == nil {
		return
	}
	m.steps.Add(ctx, 1)
	m.delivered.Add(ctx, int64(delivered))
	if conflicts > 0 {
		m.conflicts.Add(ctx, int64(conflicts))
	}
	m.confirmed.Record(ctx, int64(confirmed))
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
