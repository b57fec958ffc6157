package commands_test

import (
	"testing"
	"time"

	"traceflow/internal/core/application/usecases/commands"
	"traceflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitScanCommand(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	t.Run("creates command from scanner payload", func(t *testing.T) {
		cmd, err := commands.NewSubmitScanCommand("XL1#ORDER-20260830-001", nil, at)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "XL1#ORDER-20260830-001", cmd.RawPayload())
		assert.Nil(t, cmd.WorkerID())
		assert.Equal(t, at, cmd.At())
	})

	t.Run("creates command with explicit worker", func(t *testing.T) {
		workerID := kernel.NewUUID()
		cmd, err := commands.NewSubmitScanCommand("ORDER-20260830-001", &workerID, at)

		require.NoError(t, err)
		require.NotNil(t, cmd.WorkerID())
		assert.True(t, workerID.IsEqual(*cmd.WorkerID()))
	})

	t.Run("requires a payload", func(t *testing.T) {
		_, err := commands.NewSubmitScanCommand("", nil, at)

		require.ErrorIs(t, err, commands.ErrRawPayloadIsRequired)
	})

	t.Run("requires a scan time", func(t *testing.T) {
		_, err := commands.NewSubmitScanCommand("ORDER-1", nil, time.Time{})

		require.ErrorIs(t, err, commands.ErrScanTimeIsRequired)
	})

	t.Run("rejects invalid worker id", func(t *testing.T) {
		var workerID kernel.UUID
		_, err := commands.NewSubmitScanCommand("ORDER-1", &workerID, at)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.SubmitScanCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrSubmitScanCommandIsNotConstructed)
	})
}
