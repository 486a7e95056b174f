// Package docnum — выдача серийных номеров документов (no_surat).
package docnum

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "docflow-backend/models/db"
)

const numberWidth = 10

// Format — десятичная строка с ведущими нулями до 10 знаков.
func Format(n int64) string {
	return fmt.Sprintf("%0*d", numberWidth, n)
}

// NextAfter — номер, следующий за последним выданным.
// Некорректный прежний номер не роняет выдачу: следующий считается от нуля.
func NextAfter(last string) string {
	if last == "" {
		return Format(1)
	}
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return Format(1)
	}
	return Format(n + 1)
}

// Next — следующий номер по данным БД (max+1). Выдача идёт внутри
// транзакции создания документа; гонку двух создателей ловит уникальный
// индекс, а не эта выборка.
func Next(tx *gorm.DB) (string, error) {
	rec := dbmodels.Document{}
	err := tx.
		Model(&dbmodels.Document{}).
		Order("id DESC").
		Select("no_surat").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Format(1), nil
		}
		return "", err
	}
	return NextAfter(rec.NoSurat), nil
}

const pgUniqueViolation = "23505"

// IsUniqueViolation — нарушение уникального индекса postgres.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	// драйвер pgx отдаёт код в тексте ошибки
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), pgUniqueViolation))
}
