package worklisthandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docflow-backend/lib/utils/helpers"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
)

func makeDoc() dbmodels.Document {
	created := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	return dbmodels.Document{
		BaseModel: dbmodels.BaseModel{ID: 7, CreatedAt: created},
		NoSurat:   "0000000007",
		Title:     "Служебная записка",
		Status:    models.DocStatusWaiting,
		CreatorID: 1,
		Creator:   &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: 1}, Name: "Автор"},
		Approvers: []dbmodels.Approver{
			{BaseModel: dbmodels.BaseModel{ID: 11}, UserID: 2, SeqIndex: 0, Status: models.DocStatusWaiting,
				User: &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: 2}, Name: "Первый"}},
			{BaseModel: dbmodels.BaseModel{ID: 12}, UserID: 3, SeqIndex: 1, Status: models.DocStatusWaiting,
				User: &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: 3}, Name: "Второй"}},
		},
		Recipients: []dbmodels.Recipient{
			{BaseModel: dbmodels.BaseModel{ID: 21}, UserID: 4,
				User: &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: 4}, Name: "Получатель"}},
		},
		Attachments: []dbmodels.Attachment{
			{BaseModel: dbmodels.BaseModel{ID: 31}, DocumentID: 7, FileName: "draft.pdf"},
		},
	}
}

func TestProject(t *testing.T) {
	loc := helpers.DocLocation()

	t.Run("автор видит свой документ", func(t *testing.T) {
		view := Project(makeDoc(), 1, loc)
		require.True(t, view.IsCreator)
		require.Equal(t, "0000000007", view.NoSurat)
		require.Equal(t, "Автор", view.Creator)
		require.Len(t, view.Approvers, 2)
		require.Len(t, view.Recipients, 1)
		require.Len(t, view.Files, 1)
	})

	t.Run("время отдаётся в поясе документооборота", func(t *testing.T) {
		view := Project(makeDoc(), 1, loc)
		// 03:00 UTC + 7 часов
		require.Equal(t, "2024-05-10 10:00:00", view.CreatedAt)
	})

	t.Run("без финального файла отдаётся маркер", func(t *testing.T) {
		view := Project(makeDoc(), 1, loc)
		require.Equal(t, docapimodels.NoSealedSentinel, view.SealedFile)
	})

	t.Run("проштампованный файл попадает в проекцию", func(t *testing.T) {
		doc := makeDoc()
		doc.Attachments = append(doc.Attachments, dbmodels.Attachment{
			BaseModel: dbmodels.BaseModel{ID: 32}, DocumentID: 7, FileName: "stamped_draft.pdf",
		})
		view := Project(doc, 1, loc)
		require.Equal(t, "stamped_draft.pdf", view.SealedFile)
	})

	t.Run("удалённые файлы скрыты", func(t *testing.T) {
		doc := makeDoc()
		doc.Attachments[0].IsDeleted = true
		view := Project(doc, 1, loc)
		require.Len(t, view.Files, 0)
	})

	t.Run("непрочитанное у получателя", func(t *testing.T) {
		view := Project(makeDoc(), 4, loc)
		require.False(t, view.IsRead)
		require.True(t, view.Unread)
	})

	t.Run("прочитанное у получателя", func(t *testing.T) {
		doc := makeDoc()
		doc.Recipients[0].IsRead = true
		view := Project(doc, 4, loc)
		require.True(t, view.IsRead)
		require.False(t, view.Unread)
	})

	t.Run("непрочитанное у согласанта с доступным шагом", func(t *testing.T) {
		view := Project(makeDoc(), 2, loc)
		require.True(t, view.Unread)
	})

	t.Run("шаг вне очереди не подсвечивается", func(t *testing.T) {
		view := Project(makeDoc(), 3, loc)
		require.False(t, view.Unread)
	})

	t.Run("открытый согласантом шаг не подсвечивается", func(t *testing.T) {
		doc := makeDoc()
		doc.Approvers[0].HasRead = true
		view := Project(doc, 2, loc)
		require.False(t, view.Unread)
	})

	t.Run("после сброса цепочки подсветка возвращается", func(t *testing.T) {
		doc := makeDoc()
		doc.Approvers[0].Status = models.DocStatusWaiting
		doc.Approvers[0].HasRead = false
		doc.Status = models.DocStatusWaiting
		view := Project(doc, 2, loc)
		require.True(t, view.Unread)
	})
}
