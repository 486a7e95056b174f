package dbmodels

import (
	"time"

	"docflow-backend/models"
)

// Approver — шаг в упорядоченной цепочке согласования документа.
// SeqIndex задаёт строгий порядок (0..n-1, без пропусков на момент
// создания); согласование идёт строго по возрастанию, отклонение и
// возврат на доработку порядок не учитывают.
type Approver struct {
	BaseModel
	DocumentID int64 `gorm:"index:idx_approver_doc_user,priority:1;index"`
	UserID     int64 `gorm:"index:idx_approver_doc_user,priority:2;index"`
	User       *User `gorm:"foreignKey:UserID"`
	SeqIndex   int
	Status     models.DocStatus `gorm:"type:varchar(50);index"`
	DecidedAt  *time.Time
	Note       string `gorm:"type:text"`
	HasRead    bool
}
