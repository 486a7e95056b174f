package approvalhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docflow-backend/db"
	approvalstore "docflow-backend/lib/approval/store"
	attachmenthandler "docflow-backend/lib/attachment"
	"docflow-backend/lib/docnum"
	documentstore "docflow-backend/lib/document/store"
	notifyhandler "docflow-backend/lib/notify"
	"docflow-backend/lib/seal"
	"docflow-backend/lib/sequence"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
	wsmodels "docflow-backend/models/ws"
)

// Provider — переходы статусов документа. Согласование идёт строго по
// порядку цепочки, отклонение и возврат на доработку доступны любому
// шагу в ожидании независимо от очерёдности.
type Provider interface {
	Approve(ctx context.Context, documentID, userID int64) error
	Reject(ctx context.Context, documentID, userID int64, reason string) error
	Revise(documentID, userID int64, note string) error
	Resubmit(documentID, userID int64, data docapimodels.ResubmitData) error
	MarkStepRead(documentID, userID int64) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		docStore:  documentstore.NewInstance(db.DB),
		stepStore: approvalstore.NewInstance(db.DB),
		inTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		docStoreFor:  documentstore.NewInstance,
		stepStoreFor: approvalstore.NewInstance,
	}
}

type impl struct {
	docStore  documentstore.Provider
	stepStore approvalstore.Provider

	// обёртка транзакции и фабрики сторов, подменяются в тестах
	inTx         func(fn func(tx *gorm.DB) error) error
	docStoreFor  func(tx *gorm.DB) documentstore.Provider
	stepStoreFor func(tx *gorm.DB) approvalstore.Provider
}

func (i impl) getLogger(documentID, userID int64) *log.Entry {
	return log.
		WithField("document_id", documentID).
		WithField("user_id", userID)
}

func (i impl) getDoc(documentID int64) (*dbmodels.Document, error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil || doc.IsDeleted {
		return nil, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	return doc, nil
}

func (i impl) Approve(ctx context.Context, documentID, userID int64) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	step := doc.StepOf(userID)
	if step == nil {
		return errors.Wrap(errs.ErrForbidden, "пользователь не входит в цепочку согласования")
	}
	if !doc.Status.AllowAct() {
		return errors.Wrapf(errs.ErrInvalidStateTransition, "документ в статусе «%v»", doc.Status)
	}
	if !step.Status.AllowAct() {
		return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
	}
	if blocker := sequence.Blocker(doc.Approvers, *step); blocker != nil {
		name := ""
		if blocker.User != nil {
			name = blocker.User.Name
		}
		return errors.Wrapf(errs.ErrInvalidStateTransition, "очередь ещё не дошла: ожидается решение «%v»", name)
	}

	final := false
	err = i.inTx(func(tx *gorm.DB) error {
		stepStore := i.stepStoreFor(tx)
		updated, err := stepStore.DecideIfWaiting(step.ID, models.DocStatusApproved, "", time.Now())
		if err != nil {
			return errors.Wrap(err, "ошибка фиксации решения")
		}
		if !updated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
		}
		steps, err := stepStore.ListByDocument(documentID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения цепочки согласования")
		}
		if !allApproved(steps) {
			return nil
		}
		docUpdated, err := i.docStoreFor(tx).SetStatusIf(documentID, models.DocStatusWaiting, models.DocStatusApproved)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		if !docUpdated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "статус документа уже изменён")
		}
		final = true
		return nil
	})
	if err != nil {
		return err
	}

	i.getLogger(documentID, userID).Info("шаг согласован")
	if final {
		i.sealAndNotify(ctx, documentID, models.DocStatusApproved)
	} else {
		i.afterStepApproved(documentID)
	}
	return nil
}

// Reject — отклонение доступно любому согласанту с шагом в ожидании,
// очерёдность не проверяется. Документ уходит в финальный статус сразу.
func (i impl) Reject(ctx context.Context, documentID, userID int64, reason string) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	step := doc.StepOf(userID)
	if step == nil {
		return errors.Wrap(errs.ErrForbidden, "пользователь не входит в цепочку согласования")
	}
	if !doc.Status.AllowAct() {
		return errors.Wrapf(errs.ErrInvalidStateTransition, "документ в статусе «%v»", doc.Status)
	}
	if !step.Status.AllowAct() {
		return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
	}

	err = i.inTx(func(tx *gorm.DB) error {
		updated, err := i.stepStoreFor(tx).DecideIfWaiting(step.ID, models.DocStatusRejected, reason, time.Now())
		if err != nil {
			return errors.Wrap(err, "ошибка фиксации решения")
		}
		if !updated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
		}
		docUpdated, err := i.docStoreFor(tx).SetStatusIf(documentID, models.DocStatusWaiting, models.DocStatusRejected)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		if !docUpdated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "статус документа уже изменён")
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.getLogger(documentID, userID).WithField("reason", reason).Info("документ отклонён")
	i.sealAndNotify(ctx, documentID, models.DocStatusRejected)
	return nil
}

// Revise — возврат на доработку: документ выходит из маршрута до
// повторной подачи автором. Очерёдность, как и при отклонении,
// не проверяется.
func (i impl) Revise(documentID, userID int64, note string) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	step := doc.StepOf(userID)
	if step == nil {
		return errors.Wrap(errs.ErrForbidden, "пользователь не входит в цепочку согласования")
	}
	if !doc.Status.AllowAct() {
		return errors.Wrapf(errs.ErrInvalidStateTransition, "документ в статусе «%v»", doc.Status)
	}
	if !step.Status.AllowAct() {
		return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
	}

	err = i.inTx(func(tx *gorm.DB) error {
		updated, err := i.stepStoreFor(tx).DecideIfWaiting(step.ID, models.DocStatusRevise, note, time.Now())
		if err != nil {
			return errors.Wrap(err, "ошибка фиксации решения")
		}
		if !updated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "решение по шагу уже принято")
		}
		docUpdated, err := i.docStoreFor(tx).SetStatusIf(documentID, models.DocStatusWaiting, models.DocStatusRevise)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		if !docUpdated {
			return errors.Wrap(errs.ErrInvalidStateTransition, "статус документа уже изменён")
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.getLogger(documentID, userID).Info("документ возвращён на доработку")
	i.broadcastStatus(documentID, models.DocStatusRevise)
	if fresh, err := i.docStore.GetByID(documentID); err == nil && fresh != nil {
		notifyhandler.Instance.NotifyCreator(*fresh, "Документ на доработке",
			fmt.Sprintf("Документ %v «%v» возвращён на доработку: %v", fresh.NoSurat, fresh.Title, note))
	}
	return nil
}

// Resubmit — повторная подача после доработки: правки автора
// применяются, вся цепочка согласования сбрасывается в исходное
// состояние, маршрут начинается заново.
func (i impl) Resubmit(documentID, userID int64, data docapimodels.ResubmitData) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	if doc.CreatorID != userID {
		return errors.Wrap(errs.ErrForbidden, "повторная подача доступна только автору")
	}
	if !doc.Status.AllowResubmit() {
		return errors.Wrapf(errs.ErrInvalidStateTransition, "документ в статусе «%v», повторная подача недоступна", doc.Status)
	}

	updMap := map[string]interface{}{
		"status":     models.DocStatusWaiting,
		"created_at": time.Now(),
	}
	if data.Title != "" {
		updMap["title"] = data.Title
	}
	if data.Content != "" {
		updMap["content"] = data.Content
	}
	if data.NoSurat != "" && data.NoSurat != doc.NoSurat {
		updMap["no_surat"] = data.NoSurat
	}

	err = i.inTx(func(tx *gorm.DB) error {
		err := i.docStoreFor(tx).Update(documentID, updMap)
		if err != nil {
			if docnum.IsUniqueViolation(err) {
				return errors.Wrapf(errs.ErrUniquenessViolation, "номер %v уже занят", data.NoSurat)
			}
			return errors.Wrap(err, "ошибка обновления документа")
		}
		err = i.stepStoreFor(tx).ResetAll(documentID)
		if err != nil {
			return errors.Wrap(err, "ошибка сброса цепочки согласования")
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.getLogger(documentID, userID).Info("документ подан повторно")
	i.broadcastStatus(documentID, models.DocStatusWaiting)
	i.afterStepApproved(documentID)
	return nil
}

func (i impl) MarkStepRead(documentID, userID int64) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	step := doc.StepOf(userID)
	if step == nil {
		return errors.Wrap(errs.ErrForbidden, "пользователь не входит в цепочку согласования")
	}
	if step.HasRead {
		return nil
	}
	err = i.stepStore.MarkRead(step.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка отметки прочтения")
	}
	connectionhub.Instance.Broadcast(wsmodels.Event{
		Event:      wsmodels.EventUpdateRead,
		DocumentID: documentID,
		UserID:     userID,
	})
	return nil
}

func allApproved(steps []dbmodels.Approver) bool {
	if len(steps) == 0 {
		return false
	}
	for _, s := range steps {
		if s.Status != models.DocStatusApproved {
			return false
		}
	}
	return true
}

// afterStepApproved — уведомления следующему согласанту, чей шаг стал
// доступен после очередного решения или повторной подачи.
func (i impl) afterStepApproved(documentID int64) {
	i.broadcastStatus(documentID, models.DocStatusWaiting)
	fresh, err := i.docStore.GetByID(documentID)
	if err != nil || fresh == nil {
		return
	}
	next := sequence.NextPending(fresh.Approvers)
	if next == nil {
		return
	}
	connectionhub.Instance.Broadcast(wsmodels.Event{
		Event:      wsmodels.EventNewWaiting,
		DocumentID: documentID,
		UserID:     next.UserID,
		Title:      fresh.Title,
	})
	notifyhandler.Instance.NotifyNextApprover(*fresh)
}

// sealAndNotify — постобработка финального статуса. Статус уже
// зафиксирован, поэтому сбой формирования листа согласования логируется
// и не откатывает переход.
func (i impl) sealAndNotify(ctx context.Context, documentID int64, status models.DocStatus) {
	logger := log.WithField("document_id", documentID)
	i.broadcastStatus(documentID, status)

	fresh, err := i.docStore.GetByID(documentID)
	if err != nil || fresh == nil {
		logger.WithError(err).Error("не удалось получить документ для постобработки")
		return
	}

	pdfFile, err := seal.Instance.Generate(*fresh)
	if err != nil {
		logger.WithError(err).Error("не удалось сформировать лист согласования")
	} else {
		err = attachmenthandler.Instance.StoreSealed(ctx, documentID, sealedFileName(*fresh, status), pdfFile)
		if err != nil {
			logger.WithError(err).Error("не удалось сохранить лист согласования")
		}
	}

	switch status {
	case models.DocStatusApproved:
		notifyhandler.Instance.NotifyCreator(*fresh, "Документ согласован",
			fmt.Sprintf("Документ %v «%v» полностью согласован.", fresh.NoSurat, fresh.Title))
		notifyhandler.Instance.NotifyRecipients(*fresh)
	case models.DocStatusRejected:
		reason := ""
		for _, s := range fresh.Approvers {
			if s.Status == models.DocStatusRejected {
				reason = s.Note
				break
			}
		}
		notifyhandler.Instance.NotifyCreator(*fresh, "Документ отклонён",
			fmt.Sprintf("Документ %v «%v» отклонён: %v", fresh.NoSurat, fresh.Title, reason))
	}
}

func (i impl) broadcastStatus(documentID int64, status models.DocStatus) {
	connectionhub.Instance.Broadcast(wsmodels.Event{
		Event:      wsmodels.EventApprovalChanged,
		DocumentID: documentID,
		Status:     string(status),
	})
}

// sealedFileName — имя финального артефакта, по префиксу имени его потом
// распознают выборки.
func sealedFileName(doc dbmodels.Document, status models.DocStatus) string {
	prefix := dbmodels.SealedPrefix
	if status == models.DocStatusRejected {
		prefix = dbmodels.RejectedPrefix
	}
	base := fmt.Sprintf("%v.pdf", doc.NoSurat)
	for _, att := range doc.Attachments {
		if !att.IsSealed() && !att.IsDeleted {
			base = att.FileName
			break
		}
	}
	return prefix + base
}
