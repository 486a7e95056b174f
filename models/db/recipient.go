package dbmodels

// Recipient — информационный адресат документа, в цепочку согласования
// не входит. Удаление из своего инбокса не трогает документ и остальных
// получателей.
type Recipient struct {
	BaseModel
	DocumentID int64 `gorm:"index"`
	UserID     int64 `gorm:"index"`
	User       *User `gorm:"foreignKey:UserID"`
	IsRead     bool
	IsDeleted  bool
}
