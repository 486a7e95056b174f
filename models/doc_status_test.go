package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocStatus(t *testing.T) {
	t.Run("финальные статусы", func(t *testing.T) {
		require.True(t, DocStatusApproved.IsTerminal())
		require.True(t, DocStatusRejected.IsTerminal())
		require.False(t, DocStatusWaiting.IsTerminal())
		require.False(t, DocStatusRevise.IsTerminal())
	})

	t.Run("решение доступно только из ожидания", func(t *testing.T) {
		require.True(t, DocStatusWaiting.AllowAct())
		require.False(t, DocStatusApproved.AllowAct())
		require.False(t, DocStatusRejected.AllowAct())
		require.False(t, DocStatusRevise.AllowAct())
	})

	t.Run("повторная подача только из доработки", func(t *testing.T) {
		require.True(t, DocStatusRevise.AllowResubmit())
		require.False(t, DocStatusWaiting.AllowResubmit())
		require.False(t, DocStatusApproved.AllowResubmit())
		require.False(t, DocStatusRejected.AllowResubmit())
	})
}
