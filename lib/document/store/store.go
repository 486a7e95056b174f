package documentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Document) (id int64, err error)
	GetByID(id int64) (rec *dbmodels.Document, err error)
	Update(id int64, updMap map[string]interface{}) error
	SetStatusIf(id int64, from, to models.DocStatus) (updated bool, err error)
	SetDeletedByCreator(id, creatorID int64) (found bool, err error)
	DeleteCascade(id int64) error
	ListByCreator(creatorID int64) (list []dbmodels.Document, err error)
	ListAnyByCreator(creatorID int64) (list []dbmodels.Document, err error)
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

func (i impl) Create(rec dbmodels.Document) (id int64, err error) {
	err = i.db.
		Omit("Creator", "Approvers", "Recipients", "Attachments").
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id int64) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := preloadAll(i.db).
		Where("id = ?", id).
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

func (i impl) Update(id int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// SetStatusIf — атомарная смена статуса документа: переход выполняется
// только из ожидаемого исходного статуса. Ноль затронутых строк —
// статус уже сменил параллельный запрос.
func (i impl) SetStatusIf(id int64, from, to models.DocStatus) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) SetDeletedByCreator(id, creatorID int64) (found bool, err error) {
	tx := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Where("creator_id = ?", creatorID).
		Where("is_deleted = ?", false).
		Update("is_deleted", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteCascade — физическое удаление документа вместе с шагами,
// получателями и записями вложений.
func (i impl) DeleteCascade(id int64) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&dbmodels.Approver{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&dbmodels.Recipient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&dbmodels.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&dbmodels.Document{}).Error
	})
}

func (i impl) ListByCreator(creatorID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = preloadAll(i.db).
		Where("creator_id = ?", creatorID).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListAnyByCreator — все документы автора, включая удалённые им самим.
// Используется каскадом физического удаления, поэтому из связей грузятся
// только вложения.
func (i impl) ListAnyByCreator(creatorID int64) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Preload("Attachments").
		Where("creator_id = ?", creatorID).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
