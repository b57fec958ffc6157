package services_test

import (
	"testing"
	"time"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/order"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/core/domain/services"
	"traceflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T) services.ScanPolicy {
	t.Helper()
	policy, err := services.NewScanPolicy(pipeline.Default())
	require.NoError(t, err)
	return policy
}

func orderAt(t *testing.T, policy services.ScanPolicy, station string) *order.Order {
	t.Helper()
	pl := policy.Pipeline()
	o, err := order.NewOrder(
		kernel.NewUUID(), "QY-20260830-001", "ORDER-20260830-001",
		"李女士", "", 1500, nil, nil, pl)
	require.NoError(t, err)

	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	for o.CurrentStation() != station {
		next, nextErr := pl.Next(o.CurrentStation())
		require.NoError(t, nextErr)
		require.NoError(t, o.AdvanceTo(pl, next, now))
	}
	return o
}

func TestNewScanPolicy(t *testing.T) {
	t.Run("requires a constructed pipeline", func(t *testing.T) {
		_, err := services.NewScanPolicy(nil)

		require.ErrorIs(t, err, pipeline.ErrPipelineIsNotConstructed)
	})
}

func TestScanPolicy_Evaluate(t *testing.T) {
	policy := newPolicy(t)

	t.Run("current station advances to the next one", func(t *testing.T) {
		o := orderAt(t, policy, "待下料")

		decision, err := policy.Evaluate(o, "待下料")

		require.NoError(t, err)
		assert.Equal(t, services.Advance, decision.Kind)
		assert.Equal(t, "下料", decision.Target.Name())
	})

	t.Run("passed station is a duplicate", func(t *testing.T) {
		o := orderAt(t, policy, "裁面")

		decision, err := policy.Evaluate(o, "下料")

		require.NoError(t, err)
		assert.Equal(t, services.Duplicate, decision.Kind)
	})

	t.Run("next station is out of sequence", func(t *testing.T) {
		o := orderAt(t, policy, "待下料")

		decision, err := policy.Evaluate(o, "下料")

		require.NoError(t, err)
		assert.Equal(t, services.OutOfSequence, decision.Kind)
	})

	t.Run("skipping ahead is out of sequence", func(t *testing.T) {
		o := orderAt(t, policy, "待下料")

		decision, err := policy.Evaluate(o, "封面")

		require.NoError(t, err)
		assert.Equal(t, services.OutOfSequence, decision.Kind)
	})

	t.Run("terminal order is already completed", func(t *testing.T) {
		o := orderAt(t, policy, "已完成")

		decision, err := policy.Evaluate(o, "已完成")

		require.NoError(t, err)
		assert.Equal(t, services.AlreadyCompleted, decision.Kind)
	})

	t.Run("station outside the pipeline is an error", func(t *testing.T) {
		o := orderAt(t, policy, "待下料")

		_, err := policy.Evaluate(o, "质检")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("unconstructed order is rejected", func(t *testing.T) {
		_, err := policy.Evaluate(&order.Order{}, "下料")

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})

	t.Run("order walks the whole pipeline through advances", func(t *testing.T) {
		pl := policy.Pipeline()
		o := orderAt(t, policy, "待下料")
		now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

		for i := 0; i < pl.Len()-1; i++ {
			decision, err := policy.Evaluate(o, o.CurrentStation())
			require.NoError(t, err)
			require.Equal(t, services.Advance, decision.Kind)
			require.NoError(t, o.AdvanceTo(pl, decision.Target, now))
		}

		assert.True(t, o.IsCompleted())

		decision, err := policy.Evaluate(o, "已完成")
		require.NoError(t, err)
		assert.Equal(t, services.AlreadyCompleted, decision.Kind)
	})
}
