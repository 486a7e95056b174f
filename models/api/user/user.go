package userapimodels

import (
	"github.com/pkg/errors"

	dbmodels "docflow-backend/models/db"
)

type UserView struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:          rec.ID,
		Email:       rec.Email,
		Name:        rec.Name,
		PhoneNumber: rec.PhoneNumber,
	}
}

type UserCreateData struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r UserCreateData) Validate() error {
	if r.Email == "" {
		return errors.New("не указана почта")
	}
	if r.Name == "" {
		return errors.New("не указано имя")
	}
	if len(r.Password) < 8 {
		return errors.New("пароль короче 8 символов")
	}
	return nil
}

type AdminSetPasswordData struct {
	UserID      int64  `json:"user_id"`
	NewPassword string `json:"new_password"`
}

func (r AdminSetPasswordData) Validate() error {
	if r.UserID == 0 {
		return errors.New("не указан пользователь")
	}
	if len(r.NewPassword) < 8 {
		return errors.New("пароль короче 8 символов")
	}
	return nil
}

type AdminDeleteUserData struct {
	UserID     int64 `json:"user_id"`
	HardDelete bool  `json:"hard_delete"`
}

func (r AdminDeleteUserData) Validate() error {
	if r.UserID == 0 {
		return errors.New("не указан пользователь")
	}
	return nil
}
