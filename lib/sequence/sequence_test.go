package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

func makeChain(statuses ...models.DocStatus) []dbmodels.Approver {
	steps := make([]dbmodels.Approver, 0, len(statuses))
	for idx, status := range statuses {
		steps = append(steps, dbmodels.Approver{
			BaseModel: dbmodels.BaseModel{ID: int64(idx + 1)},
			UserID:    int64(idx + 100),
			SeqIndex:  idx,
			Status:    status,
		})
	}
	return steps
}

func TestSequence(t *testing.T) {
	t.Run("первый шаг доступен всегда", func(t *testing.T) {
		steps := makeChain(models.DocStatusWaiting, models.DocStatusWaiting)
		require.True(t, IsActionable(steps, steps[0]))
	})

	t.Run("шаг заблокирован несогласованным предшественником", func(t *testing.T) {
		steps := makeChain(models.DocStatusWaiting, models.DocStatusWaiting)
		require.False(t, IsActionable(steps, steps[1]))
		blocker := Blocker(steps, steps[1])
		require.NotNil(t, blocker)
		require.Equal(t, 0, blocker.SeqIndex)
	})

	t.Run("шаг открывается после согласования предшественников", func(t *testing.T) {
		steps := makeChain(models.DocStatusApproved, models.DocStatusApproved, models.DocStatusWaiting)
		require.True(t, IsActionable(steps, steps[2]))
		require.Nil(t, Blocker(steps, steps[2]))
	})

	t.Run("блокирует ближайший по порядку", func(t *testing.T) {
		steps := makeChain(models.DocStatusApproved, models.DocStatusWaiting, models.DocStatusWaiting, models.DocStatusWaiting)
		blocker := Blocker(steps, steps[3])
		require.NotNil(t, blocker)
		require.Equal(t, 1, blocker.SeqIndex)
	})

	t.Run("отклонённый предшественник тоже блокирует", func(t *testing.T) {
		steps := makeChain(models.DocStatusRejected, models.DocStatusWaiting)
		require.False(t, IsActionable(steps, steps[1]))
	})

	t.Run("шаг без предшественников в пустой цепочке доступен", func(t *testing.T) {
		step := dbmodels.Approver{SeqIndex: 0, Status: models.DocStatusWaiting}
		require.True(t, IsActionable(nil, step))
	})
}

func TestNextPending(t *testing.T) {
	t.Run("очередь на первом шаге", func(t *testing.T) {
		steps := makeChain(models.DocStatusWaiting, models.DocStatusWaiting)
		next := NextPending(steps)
		require.NotNil(t, next)
		require.Equal(t, 0, next.SeqIndex)
	})

	t.Run("очередь сдвигается по мере согласования", func(t *testing.T) {
		steps := makeChain(models.DocStatusApproved, models.DocStatusWaiting, models.DocStatusWaiting)
		next := NextPending(steps)
		require.NotNil(t, next)
		require.Equal(t, 1, next.SeqIndex)
	})

	t.Run("после отклонения очереди нет", func(t *testing.T) {
		steps := makeChain(models.DocStatusRejected, models.DocStatusWaiting)
		require.Nil(t, NextPending(steps))
	})

	t.Run("полностью согласованная цепочка", func(t *testing.T) {
		steps := makeChain(models.DocStatusApproved, models.DocStatusApproved)
		require.Nil(t, NextPending(steps))
	})

	t.Run("пустая цепочка", func(t *testing.T) {
		require.Nil(t, NextPending(nil))
	})
}
