package approvalstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Approver) (id int64, err error)
	GetStep(documentID, userID int64) (rec *dbmodels.Approver, err error)
	ListByDocument(documentID int64) (list []dbmodels.Approver, err error)
	DecideIfWaiting(stepID int64, status models.DocStatus, note string, decidedAt time.Time) (updated bool, err error)
	ResetAll(documentID int64) error
	MarkRead(stepID int64) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Approver) (id int64, err error) {
	err = i.db.
		Omit("User").
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetStep(documentID, userID int64) (*dbmodels.Approver, error) {
	rec := dbmodels.Approver{}
	err := i.db.
		Where("document_id = ?", documentID).
		Where("user_id = ?", userID).
		Preload("User").
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

func (i impl) ListByDocument(documentID int64) (list []dbmodels.Approver, err error) {
	list = []dbmodels.Approver{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("seq_index ASC").
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DecideIfWaiting — атомарная фиксация решения: статус меняется только
// если шаг всё ещё в ожидании. Ноль затронутых строк — решение уже
// принято параллельным запросом, проигравший получает updated=false.
func (i impl) DecideIfWaiting(stepID int64, status models.DocStatus, note string, decidedAt time.Time) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Approver{}).
		Where("id = ?", stepID).
		Where("status = ?", models.DocStatusWaiting).
		Updates(map[string]interface{}{
			"status":     status,
			"note":       note,
			"decided_at": decidedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ResetAll — полный сброс цепочки при повторной подаче: статусы, времена
// решений, замечания и отметки прочтения очищаются у всех шагов.
func (i impl) ResetAll(documentID int64) error {
	err := i.db.
		Model(&dbmodels.Approver{}).
		Where("document_id = ?", documentID).
		Updates(map[string]interface{}{
			"status":     models.DocStatusWaiting,
			"note":       "",
			"decided_at": nil,
			"has_read":   false,
		}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) MarkRead(stepID int64) error {
	return i.db.
		Model(&dbmodels.Approver{}).
		Where("id = ?", stepID).
		Update("has_read", true).
		Error
}
