package dbmodels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docflow-backend/models"
)

func TestDocument(t *testing.T) {
	doc := Document{
		CreatorID: 1,
		Approvers: []Approver{
			{UserID: 2, SeqIndex: 0, Status: models.DocStatusApproved},
			{UserID: 3, SeqIndex: 1, Status: models.DocStatusWaiting},
		},
		Recipients: []Recipient{
			{UserID: 4},
		},
	}

	t.Run("участники маршрута", func(t *testing.T) {
		require.True(t, doc.HasParticipant(1))
		require.True(t, doc.HasParticipant(2))
		require.True(t, doc.HasParticipant(4))
		require.False(t, doc.HasParticipant(5))
	})

	t.Run("шаг пользователя", func(t *testing.T) {
		step := doc.StepOf(3)
		require.NotNil(t, step)
		require.Equal(t, 1, step.SeqIndex)
		require.Nil(t, doc.StepOf(4))
	})

	t.Run("цепочка согласована не полностью", func(t *testing.T) {
		require.False(t, doc.AllApproved())
	})

	t.Run("полностью согласованная цепочка", func(t *testing.T) {
		full := Document{
			Approvers: []Approver{
				{Status: models.DocStatusApproved},
				{Status: models.DocStatusApproved},
			},
		}
		require.True(t, full.AllApproved())
	})

	t.Run("пустая цепочка не считается согласованной", func(t *testing.T) {
		require.False(t, Document{}.AllApproved())
	})
}

func TestSealedAttachment(t *testing.T) {
	t.Run("распознаётся по префиксу имени", func(t *testing.T) {
		require.True(t, Attachment{FileName: "stamped_report.pdf"}.IsSealed())
		require.True(t, Attachment{FileName: "rejected_report.pdf"}.IsSealed())
		require.False(t, Attachment{FileName: "report.pdf"}.IsSealed())
	})

	t.Run("берётся последний проштампованный", func(t *testing.T) {
		doc := Document{
			Attachments: []Attachment{
				{FileName: "draft.pdf"},
				{FileName: "stamped_old.pdf"},
				{FileName: "stamped_new.pdf"},
			},
		}
		sealed := doc.SealedAttachment()
		require.NotNil(t, sealed)
		require.Equal(t, "stamped_new.pdf", sealed.FileName)
	})

	t.Run("без финального файла nil", func(t *testing.T) {
		doc := Document{
			Attachments: []Attachment{
				{FileName: "draft.pdf"},
			},
		}
		require.Nil(t, doc.SealedAttachment())
	})
}
