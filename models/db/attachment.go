package dbmodels

// Attachment — файл документа в объектном хранилище. Загрузка ревизии
// помечает прежние файлы удалёнными, физически объекты не трогаем —
// черновая история остаётся в корзине.
type Attachment struct {
	BaseModel
	DocumentID  int64  `gorm:"index"`
	FileName    string `gorm:"type:varchar(512)"`
	ObjectKey   string `gorm:"type:varchar(1024)"`
	ContentType string `gorm:"type:varchar(255)"`
	IsDeleted   bool
}
