package workliststore

import (
	"gorm.io/gorm"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

// Provider — выборки рабочих списков. Каждый список — фильтр по
// неудалённым документам, состояние считается заново на каждом чтении.
type Provider interface {
	ApprovedByMe(userID int64) (list []dbmodels.Document, err error)
	MyFinalized(userID int64) (list []dbmodels.Document, err error)
	PendingButWaiting(userID int64) (list []dbmodels.Document, err error)
	ReadyToApprove(userID int64) (list []dbmodels.Document, err error)
	Inbox(userID int64) (list []dbmodels.Document, err error)
	UnreadInbox(userID int64) (list []dbmodels.Document, err error)
	UnreadWaiting(userID int64) (list []dbmodels.Document, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func preloadAll(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Creator").
		Preload("Approvers", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq_index ASC")
		}).
		Preload("Approvers.User").
		Preload("Recipients", "is_deleted = ?", false).
		Preload("Recipients.User").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// blockedExists — есть ли у шага несогласованный предшественник.
// Общий предикат для PendingButWaiting (есть) и ReadyToApprove (нет).
const blockedExists = `EXISTS (
	SELECT 1 FROM approvers a2
	WHERE a2.document_id = approvers.document_id
	  AND a2.seq_index < approvers.seq_index
	  AND a2.status <> ?)`

func (i impl) ApprovedByMe(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Joins("JOIN approvers ON approvers.document_id = documents.id").
		Where("approvers.user_id = ?", userID).
		Where("approvers.status = ?", models.DocStatusApproved).
		Where("documents.is_deleted = ?", false).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) MyFinalized(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Where("documents.creator_id = ?", userID).
		Where("documents.is_deleted = ?", false).
		Where("documents.status IN ?", []models.DocStatus{models.DocStatusApproved, models.DocStatusRejected}).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) PendingButWaiting(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Joins("JOIN approvers ON approvers.document_id = documents.id").
		Where("approvers.user_id = ?", userID).
		Where("approvers.status = ?", models.DocStatusWaiting).
		Where("documents.is_deleted = ?", false).
		Where(blockedExists, models.DocStatusApproved).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) ReadyToApprove(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Joins("JOIN approvers ON approvers.document_id = documents.id").
		Where("approvers.user_id = ?", userID).
		Where("approvers.status = ?", models.DocStatusWaiting).
		Where("documents.is_deleted = ?", false).
		Where("NOT "+blockedExists, models.DocStatusApproved).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) Inbox(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Joins("JOIN recipients ON recipients.document_id = documents.id").
		Where("recipients.user_id = ?", userID).
		Where("recipients.is_deleted = ?", false).
		Where("documents.is_deleted = ?", false).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) UnreadInbox(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Joins("JOIN recipients ON recipients.document_id = documents.id").
		Where("recipients.user_id = ?", userID).
		Where("recipients.is_read = ?", false).
		Where("recipients.is_deleted = ?", false).
		Where("documents.is_deleted = ?", false).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}

func (i impl) UnreadWaiting(userID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Joins("JOIN approvers ON approvers.document_id = documents.id").
		Where("approvers.user_id = ?", userID).
		Where("approvers.status = ?", models.DocStatusWaiting).
		Where("approvers.has_read = ?", false).
		Where("documents.is_deleted = ?", false).
		Order("documents.id ASC").
		Find(&list).
		Error
	return list, err
}
