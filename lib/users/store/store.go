package usersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id int64, err error)
	GetByID(id int64) (rec *dbmodels.User, err error)
	GetByEmail(email string) (rec *dbmodels.User, err error)
	ExistByEmail(email string) (bool, error)
	List() (list []dbmodels.User, err error)
	UpdatePassword(id int64, passwordHash string) error
	SoftDelete(id int64) error
	HardDelete(id int64) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (id int64, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id int64) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
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

func (i impl) GetByEmail(email string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("email = ?", email).
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

func (i impl) ExistByEmail(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) List() (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	err = i.db.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) UpdatePassword(id int64, passwordHash string) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).
		Error
}

func (i impl) SoftDelete(id int64) error {
	return i.db.
		Delete(&dbmodels.User{}, id).
		Error
}

func (i impl) HardDelete(id int64) error {
	return i.db.
		Unscoped().
		Delete(&dbmodels.User{}, id).
		Error
}
