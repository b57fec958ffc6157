package worker_test

import (
	"testing"

	"traceflow/internal/core/domain/model/kernel"
	"traceflow/internal/core/domain/model/worker"
	"traceflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorker(t *testing.T) {
	t.Run("creates worker with scanner", func(t *testing.T) {
		w, err := worker.NewWorker(kernel.NewUUID(), "张伟", "下料", "XL1#", "13900000000")

		require.NoError(t, err)
		require.NoError(t, w.Validate())
		assert.Equal(t, "张伟", w.Name())
		assert.Equal(t, "下料", w.Station())
		assert.Equal(t, "XL1#", w.ScannerCode())
		assert.True(t, w.HasScanner())
	})

	t.Run("scanner code is optional", func(t *testing.T) {
		w, err := worker.NewWorker(kernel.NewUUID(), "李娜", "封面", "", "")

		require.NoError(t, err)
		assert.False(t, w.HasScanner())
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := worker.NewWorker(kernel.NewUUID(), "", "下料", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires a station", func(t *testing.T) {
		_, err := worker.NewWorker(kernel.NewUUID(), "张伟", "", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects invalid id", func(t *testing.T) {
		var id kernel.UUID
		_, err := worker.NewWorker(id, "张伟", "下料", "", "")

		require.Error(t, err)
	})

	t.Run("direct instantiation fails validation", func(t *testing.T) {
		var w worker.Worker

		assert.Equal(t, worker.ErrWorkerIsNotConstructed, w.Validate())
	})
}

func TestWorker_Reassign(t *testing.T) {
	w, err := worker.NewWorker(kernel.NewUUID(), "张伟", "下料", "XL1#", "")
	require.NoError(t, err)

	require.NoError(t, w.Reassign("裁面"))
	assert.Equal(t, "裁面", w.Station())

	require.ErrorIs(t, w.Reassign(""), errs.ErrValueIsRequired)
	assert.Equal(t, "裁面", w.Station())
}

func TestWorker_IsEqual(t *testing.T) {
	a, err := worker.NewWorker(kernel.NewUUID(), "张伟", "下料", "", "")
	require.NoError(t, err)
	b, err := worker.NewWorker(kernel.NewUUID(), "张伟", "下料", "", "")
	require.NoError(t, err)

	assert.True(t, a.IsEqual(a))
	assert.False(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(nil))
}
