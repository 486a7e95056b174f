package attachmentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Attachment) (id int64, err error)
	GetByID(documentID, id int64) (rec *dbmodels.Attachment, err error)
	ListByDocument(documentID int64) (list []dbmodels.Attachment, err error)
	SetDeletedByDocument(documentID int64) error
	ListTrashForUser(userID int64) (list []dbmodels.Attachment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Attachment) (id int64, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(documentID, id int64) (*dbmodels.Attachment, error) {
	rec := dbmodels.Attachment{}
	err := i.db.
		Where("id = ?", id).
		Where("document_id = ?", documentID).
		Where("is_deleted = ?", false).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByDocument(documentID int64) (list []dbmodels.Attachment, err error) {
	list = []dbmodels.Attachment{}
	err = i.db.
		Where("document_id = ?", documentID).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SetDeletedByDocument — пометить все файлы документа удалёнными
// (загрузка ревизии вытесняет прежние черновики в корзину).
func (i impl) SetDeletedByDocument(documentID int64) error {
	return i.db.
		Model(&dbmodels.Attachment{}).
		Where("document_id = ?", documentID).
		Where("is_deleted = ?", false).
		Update("is_deleted", true).
		Error
}

// ListTrashForUser — удалённые файлы документов, где пользователь автор
// или получатель.
func (i impl) ListTrashForUser(userID int64) (list []dbmodels.Attachment, err error) {
	list = []dbmodels.Attachment{}
	err = i.db.
		Model(&dbmodels.Attachment{}).
		Joins("JOIN documents ON documents.id = attachments.document_id").
		Where("attachments.is_deleted = ?", true).
		Where("documents.creator_id = ? OR EXISTS (SELECT 1 FROM recipients r WHERE r.document_id = documents.id AND r.user_id = ?)",
			userID, userID).
		Order("attachments.id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
