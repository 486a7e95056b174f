package dbmodels

import (
	"strings"

	"docflow-backend/models"
)

// Document — предмет маршрута согласования.
// Статус хранится дублирующе к статусам шагов ради индексных выборок,
// единственный пишущий — обработчик согласования (lib/approval).
type Document struct {
	BaseModel
	NoSurat   string           `gorm:"type:varchar(50);uniqueIndex" json:"no_surat"`
	Title     string           `gorm:"type:varchar(512)"`
	Content   string           `gorm:"type:text"`
	CreatorID int64            `gorm:"index"`
	Creator   *User            `gorm:"foreignKey:CreatorID"`
	Status    models.DocStatus `gorm:"type:varchar(50);index"`
	// IsDeleted — удаление со стороны отправителя; видимость у получателей
	// не затрагивает (у них свой флаг на Recipient).
	IsDeleted bool `gorm:"index"`

	Approvers   []Approver   `gorm:"foreignKey:DocumentID"`
	Recipients  []Recipient  `gorm:"foreignKey:DocumentID"`
	Attachments []Attachment `gorm:"foreignKey:DocumentID"`
}

// StepOf — шаг согласования пользователя, nil если он не согласант.
func (d Document) StepOf(userID int64) *Approver {
	for idx := range d.Approvers {
		if d.Approvers[idx].UserID == userID {
			return &d.Approvers[idx]
		}
	}
	return nil
}

// AllApproved — все шаги согласованы. Пустая цепочка согласантов
// документ не завершает: такой документ остаётся в ожидании навсегда
// (рассылка без согласования).
func (d Document) AllApproved() bool {
	if len(d.Approvers) == 0 {
		return false
	}
	for _, a := range d.Approvers {
		if a.Status != models.DocStatusApproved {
			return false
		}
	}
	return true
}

// HasParticipant — автор, согласант или получатель.
func (d Document) HasParticipant(userID int64) bool {
	if d.CreatorID == userID {
		return true
	}
	if d.StepOf(userID) != nil {
		return true
	}
	for _, r := range d.Recipients {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// SealedAttachment — последний проштампованный файл, nil пока документ
// не завершён печатью.
func (d Document) SealedAttachment() *Attachment {
	for idx := len(d.Attachments) - 1; idx >= 0; idx-- {
		if d.Attachments[idx].IsSealed() {
			return &d.Attachments[idx]
		}
	}
	return nil
}

const (
	SealedPrefix   = "stamped_"
	RejectedPrefix = "rejected_"
)

// IsSealed — финальный артефакт распознаётся по префиксу имени файла,
// соглашение унаследовано от исходной системы.
func (a Attachment) IsSealed() bool {
	return strings.HasPrefix(a.FileName, SealedPrefix) ||
		strings.HasPrefix(a.FileName, RejectedPrefix)
}
