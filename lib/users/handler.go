package usershandler

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"docflow-backend/db"
	attachmenthandler "docflow-backend/lib/attachment"
	documentstore "docflow-backend/lib/document/store"
	usersstore "docflow-backend/lib/users/store"
	authutils "docflow-backend/lib/utils/auth-utils"
	authapimodels "docflow-backend/models/api/auth"
	userapimodels "docflow-backend/models/api/user"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
)

type Provider interface {
	Login(data authapimodels.LoginData) (resp authapimodels.LoginResponse, err error)
	Create(data userapimodels.UserCreateData) (view userapimodels.UserView, err error)
	GetByID(id int64) (view userapimodels.UserView, err error)
	List() (list []userapimodels.UserView, err error)
	SetPassword(data userapimodels.AdminSetPasswordData) error
	Delete(ctx context.Context, data userapimodels.AdminDeleteUserData) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:    usersstore.NewInstance(db.DB),
		docStore: documentstore.NewInstance(db.DB),
		purge: func(ctx context.Context, doc dbmodels.Document) {
			attachmenthandler.Instance.PurgeObjects(ctx, doc)
		},
	}
}

type impl struct {
	store    usersstore.Provider
	docStore documentstore.Provider
	// подменяется в тестах
	purge func(ctx context.Context, doc dbmodels.Document)
}

func (i impl) Login(data authapimodels.LoginData) (resp authapimodels.LoginResponse, err error) {
	rec, err := i.store.GetByEmail(data.Email)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка поиска пользователя по почте")
	}
	if rec == nil {
		return resp, errors.Wrap(errs.ErrForbidden, "неверная почта или пароль")
	}
	err = bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(data.Password))
	if err != nil {
		return resp, errors.Wrap(errs.ErrForbidden, "неверная почта или пароль")
	}
	token, err := authutils.GetToken(rec.ID, rec.Name)
	if err != nil {
		return resp, errors.Wrap(err, "ошибка выпуска токена")
	}
	return authapimodels.LoginResponse{
		Token:  token,
		UserID: rec.ID,
		Name:   rec.Name,
	}, nil
}

func (i impl) Create(data userapimodels.UserCreateData) (view userapimodels.UserView, err error) {
	exist, err := i.store.ExistByEmail(data.Email)
	if err != nil {
		return view, errors.Wrap(err, "ошибка проверки почты")
	}
	if exist {
		return view, errors.Wrap(errs.ErrUniquenessViolation, "пользователь с такой почтой уже зарегистрирован")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return view, errors.Wrap(err, "ошибка хеширования пароля")
	}
	rec := dbmodels.User{
		Email:        data.Email,
		Name:         data.Name,
		PasswordHash: string(hash),
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return view, errors.Wrap(err, "ошибка создания пользователя")
	}
	rec.ID = id
	log.WithField("user_id", id).Info("зарегистрирован новый пользователь")
	return userapimodels.UserConvert(rec), nil
}

func (i impl) GetByID(id int64) (view userapimodels.UserView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return view, errors.Wrap(errs.ErrNotFound, "пользователь не найден")
	}
	return userapimodels.UserConvert(*rec), nil
}

func (i impl) List() (list []userapimodels.UserView, err error) {
	recs, err := i.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	list = make([]userapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, userapimodels.UserConvert(rec))
	}
	return list, nil
}

func (i impl) SetPassword(data userapimodels.AdminSetPasswordData) error {
	rec, err := i.store.GetByID(data.UserID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return errors.Wrap(errs.ErrNotFound, "пользователь не найден")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(data.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "ошибка хеширования пароля")
	}
	err = i.store.UpdatePassword(data.UserID, string(hash))
	if err != nil {
		return errors.Wrap(err, "ошибка смены пароля")
	}
	log.WithField("user_id", data.UserID).Info("пароль пользователя сменён администратором")
	return nil
}

// Delete — удаление пользователя администратором. Полное удаление
// каскадом сносит документы автора вместе с шагами, получателями и
// вложениями; объекты в хранилище зачищаются по возможности.
func (i impl) Delete(ctx context.Context, data userapimodels.AdminDeleteUserData) error {
	rec, err := i.store.GetByID(data.UserID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return errors.Wrap(errs.ErrNotFound, "пользователь не найден")
	}
	if data.HardDelete {
		err = i.cascadeDocuments(ctx, data.UserID)
		if err != nil {
			return err
		}
		err = i.store.HardDelete(data.UserID)
	} else {
		err = i.store.SoftDelete(data.UserID)
	}
	if err != nil {
		return errors.Wrap(err, "ошибка удаления пользователя")
	}
	log.
		WithField("user_id", data.UserID).
		WithField("hard_delete", data.HardDelete).
		Info("пользователь удалён администратором")
	return nil
}

func (i impl) cascadeDocuments(ctx context.Context, creatorID int64) error {
	docs, err := i.docStore.ListAnyByCreator(creatorID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения документов пользователя")
	}
	for _, doc := range docs {
		i.purge(ctx, doc)
		err = i.docStore.DeleteCascade(doc.ID)
		if err != nil {
			return errors.Wrapf(err, "ошибка каскадного удаления документа %v", doc.ID)
		}
		log.
			WithField("document_id", doc.ID).
			WithField("user_id", creatorID).
			Info("документ удалён каскадом вместе с автором")
	}
	return nil
}
