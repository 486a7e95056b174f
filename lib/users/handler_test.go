package usershandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"docflow-backend/models"
	userapimodels "docflow-backend/models/api/user"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
)

type fakeUsersStore struct {
	users map[int64]*dbmodels.User
	soft  []int64
	hard  []int64
}

func (f *fakeUsersStore) Create(rec dbmodels.User) (int64, error) { return 0, nil }

func (f *fakeUsersStore) GetByID(id int64) (*dbmodels.User, error) {
	return f.users[id], nil
}

func (f *fakeUsersStore) GetByEmail(email string) (*dbmodels.User, error) { return nil, nil }
func (f *fakeUsersStore) ExistByEmail(email string) (bool, error)         { return false, nil }
func (f *fakeUsersStore) List() ([]dbmodels.User, error)                  { return nil, nil }
func (f *fakeUsersStore) UpdatePassword(id int64, hash string) error      { return nil }

func (f *fakeUsersStore) SoftDelete(id int64) error {
	f.soft = append(f.soft, id)
	return nil
}

func (f *fakeUsersStore) HardDelete(id int64) error {
	f.hard = append(f.hard, id)
	delete(f.users, id)
	return nil
}

type fakeDocStore struct {
	docs     []dbmodels.Document
	cascaded []int64
}

func (f *fakeDocStore) Create(rec dbmodels.Document) (int64, error)    { return 0, nil }
func (f *fakeDocStore) GetByID(id int64) (*dbmodels.Document, error)   { return nil, nil }
func (f *fakeDocStore) Update(id int64, m map[string]interface{}) error { return nil }
func (f *fakeDocStore) SetStatusIf(id int64, from, to models.DocStatus) (bool, error) {
	return false, nil
}
func (f *fakeDocStore) SetDeletedByCreator(id, creatorID int64) (bool, error) { return false, nil }

func (f *fakeDocStore) DeleteCascade(id int64) error {
	f.cascaded = append(f.cascaded, id)
	kept := f.docs[:0]
	for _, doc := range f.docs {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	f.docs = kept
	return nil
}

func (f *fakeDocStore) ListByCreator(creatorID int64) ([]dbmodels.Document, error) {
	return nil, nil
}

func (f *fakeDocStore) ListAnyByCreator(creatorID int64) ([]dbmodels.Document, error) {
	list := []dbmodels.Document{}
	for _, doc := range f.docs {
		if doc.CreatorID == creatorID {
			list = append(list, doc)
		}
	}
	return list, nil
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	newTestHandler := func() (impl, *fakeUsersStore, *fakeDocStore, *[]int64) {
		author := &dbmodels.User{Name: "Автор", Email: "author@example.com"}
		author.ID = 1
		users := &fakeUsersStore{users: map[int64]*dbmodels.User{1: author}}

		first := dbmodels.Document{
			CreatorID: 1,
			IsDeleted: true,
			Attachments: []dbmodels.Attachment{
				{FileName: "contract.pdf", ObjectKey: "k1_contract.pdf"},
			},
		}
		first.ID = 5
		second := dbmodels.Document{CreatorID: 1}
		second.ID = 6
		docs := &fakeDocStore{docs: []dbmodels.Document{first, second}}

		purged := []int64{}
		h := impl{
			store:    users,
			docStore: docs,
			purge: func(ctx context.Context, doc dbmodels.Document) {
				purged = append(purged, doc.ID)
			},
		}
		return h, users, docs, &purged
	}

	t.Run("полное удаление сносит документы автора каскадом", func(t *testing.T) {
		h, users, docs, purged := newTestHandler()
		err := h.Delete(ctx, userapimodels.AdminDeleteUserData{UserID: 1, HardDelete: true})
		require.NoError(t, err)
		require.Equal(t, []int64{5, 6}, docs.cascaded)
		require.Equal(t, []int64{5, 6}, *purged)
		require.Empty(t, docs.docs)
		require.Equal(t, []int64{1}, users.hard)
		require.Empty(t, users.soft)
	})

	t.Run("мягкое удаление документы не трогает", func(t *testing.T) {
		h, users, docs, purged := newTestHandler()
		err := h.Delete(ctx, userapimodels.AdminDeleteUserData{UserID: 1})
		require.NoError(t, err)
		require.Empty(t, docs.cascaded)
		require.Empty(t, *purged)
		require.Len(t, docs.docs, 2)
		require.Equal(t, []int64{1}, users.soft)
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		h, _, _, _ := newTestHandler()
		err := h.Delete(ctx, userapimodels.AdminDeleteUserData{UserID: 99})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}
