package docnum

import (
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDocnum(t *testing.T) {
	t.Run("номер дополняется нулями до 10 знаков", func(t *testing.T) {
		require.Equal(t, "0000000001", Format(1))
		require.Equal(t, "0000000042", Format(42))
		require.Equal(t, "9999999999", Format(9999999999))
	})

	t.Run("следующий номер монотонно растёт", func(t *testing.T) {
		require.Equal(t, "0000000002", NextAfter("0000000001"))
		require.Equal(t, "0000000100", NextAfter("0000000099"))
	})

	t.Run("пустая таблица начинает с единицы", func(t *testing.T) {
		require.Equal(t, "0000000001", NextAfter(""))
	})

	t.Run("мусорный прежний номер не роняет выдачу", func(t *testing.T) {
		require.Equal(t, "0000000001", NextAfter("SRT/2024/01"))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("код 23505 от драйвера pq", func(t *testing.T) {
		err := &pq.Error{Code: "23505"}
		require.True(t, IsUniqueViolation(err))
	})

	t.Run("обёрнутая ошибка драйвера", func(t *testing.T) {
		err := errors.Wrap(&pq.Error{Code: "23505"}, "ошибка создания документа")
		require.True(t, IsUniqueViolation(err))
	})

	t.Run("ошибка gorm", func(t *testing.T) {
		require.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	})

	t.Run("прочие ошибки не распознаются", func(t *testing.T) {
		require.False(t, IsUniqueViolation(errors.New("connection refused")))
		require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	})
}
