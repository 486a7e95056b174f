// Package sequence — правила очерёдности цепочки согласования.
// Чистые функции над загруженным набором шагов, без побочных эффектов.
package sequence

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

// IsActionable — шаг доступен для решения, когда все шаги с меньшим
// SeqIndex согласованы. Шаг без предшественников доступен всегда.
func IsActionable(steps []dbmodels.Approver, step dbmodels.Approver) bool {
	return Blocker(steps, step) == nil
}

// Blocker — первый (по порядку) несогласованный предшественник шага,
// nil если шаг доступен.
func Blocker(steps []dbmodels.Approver, step dbmodels.Approver) *dbmodels.Approver {
	var blocker *dbmodels.Approver
	for idx := range steps {
		prev := &steps[idx]
		if prev.SeqIndex >= step.SeqIndex {
			continue
		}
		if prev.Status == models.DocStatusApproved {
			continue
		}
		if blocker == nil || prev.SeqIndex < blocker.SeqIndex {
			blocker = prev
		}
	}
	return blocker
}

// NextPending — ближайший доступный для решения шаг в статусе ожидания,
// nil если такого нет.
func NextPending(steps []dbmodels.Approver) *dbmodels.Approver {
	var next *dbmodels.Approver
	for idx := range steps {
		step := &steps[idx]
		if step.Status != models.DocStatusWaiting {
			continue
		}
		if !IsActionable(steps, *step) {
			continue
		}
		if next == nil || step.SeqIndex < next.SeqIndex {
			next = step
		}
	}
	return next
}
