package recipientstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Recipient) (id int64, err error)
	GetByDocAndUser(documentID, userID int64) (rec *dbmodels.Recipient, err error)
	ListByDocument(documentID int64) (list []dbmodels.Recipient, err error)
	MarkRead(id int64) (changed bool, err error)
	SetDeleted(documentID, userID int64) (found bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Recipient) (id int64, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByDocAndUser(documentID, userID int64) (*dbmodels.Recipient, error) {
	rec := dbmodels.Recipient{}
	err := i.db.
		Where("document_id = ?", documentID).
		Where("user_id = ?", userID).
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

func (i impl) ListByDocument(documentID int64) (list []dbmodels.Recipient, err error) {
	list = []dbmodels.Recipient{}
	err = i.db.
		Where("document_id = ?", documentID).
		Where("is_deleted = ?", false).
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// MarkRead идемпотентна: повторная отметка уже прочитанной записи
// ничего не меняет, changed=false.
func (i impl) MarkRead(id int64) (changed bool, err error) {
	tx := i.db.
		Model(&dbmodels.Recipient{}).
		Where("id = ?", id).
		Where("is_read = ?", false).
		Update("is_read", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) SetDeleted(documentID, userID int64) (found bool, err error) {
	tx := i.db.
		Model(&dbmodels.Recipient{}).
		Where("document_id = ?", documentID).
		Where("user_id = ?", userID).
		Where("is_deleted = ?", false).
		Update("is_deleted", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
