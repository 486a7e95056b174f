package approvalhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	approvalstore "docflow-backend/lib/approval/store"
	documentstore "docflow-backend/lib/document/store"
	notifyhandler "docflow-backend/lib/notify"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
)

func TestAllApproved(t *testing.T) {
	t.Run("все шаги согласованы", func(t *testing.T) {
		steps := []dbmodels.Approver{
			{Status: models.DocStatusApproved},
			{Status: models.DocStatusApproved},
		}
		require.True(t, allApproved(steps))
	})

	t.Run("остался шаг в ожидании", func(t *testing.T) {
		steps := []dbmodels.Approver{
			{Status: models.DocStatusApproved},
			{Status: models.DocStatusWaiting},
		}
		require.False(t, allApproved(steps))
	})

	t.Run("пустая цепочка документ не завершает", func(t *testing.T) {
		require.False(t, allApproved(nil))
	})
}

func TestSealedFileName(t *testing.T) {
	t.Run("имя от первого живого вложения", func(t *testing.T) {
		doc := dbmodels.Document{
			NoSurat: "0000000005",
			Attachments: []dbmodels.Attachment{
				{FileName: "contract.pdf"},
			},
		}
		require.Equal(t, "stamped_contract.pdf", sealedFileName(doc, models.DocStatusApproved))
		require.Equal(t, "rejected_contract.pdf", sealedFileName(doc, models.DocStatusRejected))
	})

	t.Run("без вложений имя от номера документа", func(t *testing.T) {
		doc := dbmodels.Document{NoSurat: "0000000005"}
		require.Equal(t, "stamped_0000000005.pdf", sealedFileName(doc, models.DocStatusApproved))
	})

	t.Run("проштампованные и удалённые вложения пропускаются", func(t *testing.T) {
		doc := dbmodels.Document{
			NoSurat: "0000000005",
			Attachments: []dbmodels.Attachment{
				{FileName: "stamped_old.pdf"},
				{FileName: "draft.pdf", IsDeleted: true},
				{FileName: "final.pdf"},
			},
		}
		require.Equal(t, "stamped_final.pdf", sealedFileName(doc, models.DocStatusApproved))
	})
}

type fakeDocStore struct {
	doc    *dbmodels.Document
	updErr error
}

func (f *fakeDocStore) Create(rec dbmodels.Document) (int64, error) { return 0, nil }

func (f *fakeDocStore) GetByID(id int64) (*dbmodels.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, nil
	}
	cp := *f.doc
	return &cp, nil
}

func (f *fakeDocStore) Update(id int64, updMap map[string]interface{}) error {
	if f.updErr != nil {
		return f.updErr
	}
	if status, ok := updMap["status"]; ok {
		f.doc.Status = status.(models.DocStatus)
	}
	if title, ok := updMap["title"]; ok {
		f.doc.Title = title.(string)
	}
	if content, ok := updMap["content"]; ok {
		f.doc.Content = content.(string)
	}
	if noSurat, ok := updMap["no_surat"]; ok {
		f.doc.NoSurat = noSurat.(string)
	}
	if createdAt, ok := updMap["created_at"]; ok {
		f.doc.CreatedAt = createdAt.(time.Time)
	}
	return nil
}

func (f *fakeDocStore) SetStatusIf(id int64, from, to models.DocStatus) (bool, error) {
	if f.doc.Status != from {
		return false, nil
	}
	f.doc.Status = to
	return true, nil
}

func (f *fakeDocStore) SetDeletedByCreator(id, creatorID int64) (bool, error) { return false, nil }
func (f *fakeDocStore) DeleteCascade(id int64) error                          { return nil }
func (f *fakeDocStore) ListByCreator(creatorID int64) ([]dbmodels.Document, error) {
	return nil, nil
}
func (f *fakeDocStore) ListAnyByCreator(creatorID int64) ([]dbmodels.Document, error) {
	return nil, nil
}

// fakeStepStore работает прямо по цепочке документа; raceLost имитирует
// параллельный запрос, успевший зафиксировать решение первым.
type fakeStepStore struct {
	doc      *dbmodels.Document
	raceLost bool
}

func (f *fakeStepStore) Create(rec dbmodels.Approver) (int64, error) { return 0, nil }

func (f *fakeStepStore) GetStep(documentID, userID int64) (*dbmodels.Approver, error) {
	return f.doc.StepOf(userID), nil
}

func (f *fakeStepStore) ListByDocument(documentID int64) ([]dbmodels.Approver, error) {
	return f.doc.Approvers, nil
}

func (f *fakeStepStore) DecideIfWaiting(stepID int64, status models.DocStatus, note string, decidedAt time.Time) (bool, error) {
	if f.raceLost {
		return false, nil
	}
	for idx := range f.doc.Approvers {
		step := &f.doc.Approvers[idx]
		if step.ID != stepID || step.Status != models.DocStatusWaiting {
			continue
		}
		step.Status = status
		step.Note = note
		t := decidedAt
		step.DecidedAt = &t
		return true, nil
	}
	return false, nil
}

func (f *fakeStepStore) ResetAll(documentID int64) error {
	for idx := range f.doc.Approvers {
		step := &f.doc.Approvers[idx]
		step.Status = models.DocStatusWaiting
		step.Note = ""
		step.DecidedAt = nil
		step.HasRead = false
	}
	return nil
}

func (f *fakeStepStore) MarkRead(stepID int64) error {
	for idx := range f.doc.Approvers {
		if f.doc.Approvers[idx].ID == stepID {
			f.doc.Approvers[idx].HasRead = true
		}
	}
	return nil
}

type nopNotifier struct{}

func (nopNotifier) NotifyNextApprover(doc dbmodels.Document)                 {}
func (nopNotifier) NotifyRecipients(doc dbmodels.Document)                   {}
func (nopNotifier) NotifyCreator(doc dbmodels.Document, subject, msg string) {}

func newTestHandler(doc *dbmodels.Document) (impl, *fakeDocStore, *fakeStepStore) {
	connectionhub.Init()
	notifyhandler.Instance = nopNotifier{}
	docs := &fakeDocStore{doc: doc}
	steps := &fakeStepStore{doc: doc}
	h := impl{
		docStore:  docs,
		stepStore: steps,
		inTx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
		docStoreFor:  func(tx *gorm.DB) documentstore.Provider { return docs },
		stepStoreFor: func(tx *gorm.DB) approvalstore.Provider { return steps },
	}
	return h, docs, steps
}

func waitingDoc() *dbmodels.Document {
	doc := &dbmodels.Document{
		NoSurat:   "0000000001",
		Title:     "Договор",
		CreatorID: 1,
		Status:    models.DocStatusWaiting,
		Approvers: []dbmodels.Approver{
			{BaseModel: dbmodels.BaseModel{ID: 11}, UserID: 10, SeqIndex: 0, Status: models.DocStatusWaiting},
			{BaseModel: dbmodels.BaseModel{ID: 12}, UserID: 20, SeqIndex: 1, Status: models.DocStatusWaiting},
		},
	}
	doc.ID = 5
	return doc
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("промежуточное согласование не завершает документ", func(t *testing.T) {
		doc := waitingDoc()
		h, _, _ := newTestHandler(doc)
		require.NoError(t, h.Approve(ctx, doc.ID, 10))
		require.Equal(t, models.DocStatusApproved, doc.Approvers[0].Status)
		require.NotNil(t, doc.Approvers[0].DecidedAt)
		require.Equal(t, models.DocStatusWaiting, doc.Status)
	})

	t.Run("повторное решение по тому же шагу отклоняется", func(t *testing.T) {
		doc := waitingDoc()
		h, _, _ := newTestHandler(doc)
		require.NoError(t, h.Approve(ctx, doc.ID, 10))
		err := h.Approve(ctx, doc.ID, 10)
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		require.Equal(t, models.DocStatusApproved, doc.Approvers[0].Status)
	})

	t.Run("проигравший гонку получает отказ перехода", func(t *testing.T) {
		doc := waitingDoc()
		h, _, steps := newTestHandler(doc)
		steps.raceLost = true
		err := h.Approve(ctx, doc.ID, 10)
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		require.Equal(t, models.DocStatusWaiting, doc.Status)
	})

	t.Run("вне очереди согласовать нельзя", func(t *testing.T) {
		doc := waitingDoc()
		h, _, _ := newTestHandler(doc)
		err := h.Approve(ctx, doc.ID, 20)
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		require.Equal(t, models.DocStatusWaiting, doc.Approvers[1].Status)
	})
}

func TestResubmit(t *testing.T) {
	reviseDoc := func() *dbmodels.Document {
		decidedAt := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
		doc := &dbmodels.Document{
			NoSurat:   "0000000001",
			Title:     "Договор",
			CreatorID: 1,
			Status:    models.DocStatusRevise,
			Approvers: []dbmodels.Approver{
				{BaseModel: dbmodels.BaseModel{ID: 11}, UserID: 10, SeqIndex: 0, Status: models.DocStatusApproved, DecidedAt: &decidedAt, HasRead: true},
				{BaseModel: dbmodels.BaseModel{ID: 12}, UserID: 20, SeqIndex: 1, Status: models.DocStatusRevise, Note: "поправить сумму", DecidedAt: &decidedAt, HasRead: true},
				{BaseModel: dbmodels.BaseModel{ID: 13}, UserID: 30, SeqIndex: 2, Status: models.DocStatusWaiting},
			},
		}
		doc.ID = 5
		return doc
	}

	t.Run("цепочка сбрасывается полностью", func(t *testing.T) {
		doc := reviseDoc()
		h, _, _ := newTestHandler(doc)
		require.NoError(t, h.Resubmit(doc.ID, 1, docapimodels.ResubmitData{Content: "исправленный текст"}))
		require.Equal(t, models.DocStatusWaiting, doc.Status)
		require.Equal(t, "исправленный текст", doc.Content)
		for _, step := range doc.Approvers {
			require.Equal(t, models.DocStatusWaiting, step.Status)
			require.Empty(t, step.Note)
			require.Nil(t, step.DecidedAt)
			require.False(t, step.HasRead)
		}
	})

	t.Run("повторная подача доступна только автору", func(t *testing.T) {
		doc := reviseDoc()
		h, _, _ := newTestHandler(doc)
		err := h.Resubmit(doc.ID, 10, docapimodels.ResubmitData{})
		require.ErrorIs(t, err, errs.ErrForbidden)
		require.Equal(t, models.DocStatusRevise, doc.Status)
	})

	t.Run("вне доработки повторная подача недоступна", func(t *testing.T) {
		doc := waitingDoc()
		h, _, _ := newTestHandler(doc)
		err := h.Resubmit(doc.ID, 1, docapimodels.ResubmitData{})
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("занятый номер даёт конфликт уникальности", func(t *testing.T) {
		doc := reviseDoc()
		h, docs, _ := newTestHandler(doc)
		docs.updErr = gorm.ErrDuplicatedKey
		err := h.Resubmit(doc.ID, 1, docapimodels.ResubmitData{NoSurat: "0000000009"})
		require.ErrorIs(t, err, errs.ErrUniquenessViolation)
	})
}
