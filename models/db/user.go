package dbmodels

import (
	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Email        string         `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string         `gorm:"type:varchar(255)"`
	Name         string         `gorm:"type:varchar(255)"`
	PhoneNumber  string         `gorm:"type:varchar(30)"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
