package seal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

func TestGenerate(t *testing.T) {
	decided := time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	doc := dbmodels.Document{
		BaseModel: dbmodels.BaseModel{ID: 1, CreatedAt: decided.Add(-time.Hour)},
		NoSurat:   "0000000001",
		Title:     "Договор",
		Creator:   &dbmodels.User{Name: "Автор"},
		Approvers: []dbmodels.Approver{
			{UserID: 2, SeqIndex: 0, Status: models.DocStatusApproved, DecidedAt: &decided,
				User: &dbmodels.User{Name: "Первый"}},
			{UserID: 3, SeqIndex: 1, Status: models.DocStatusApproved, DecidedAt: &decided,
				User: &dbmodels.User{Name: "Второй"}},
		},
	}

	t.Run("лист согласования формируется", func(t *testing.T) {
		pdfFile, err := impl{}.Generate(doc)
		require.Nil(t, err)
		require.NotEmpty(t, pdfFile)
		require.Equal(t, "%PDF", string(pdfFile[:4]))
	})

	t.Run("отклонённый документ тоже штампуется", func(t *testing.T) {
		rejected := doc
		rejected.Approvers = []dbmodels.Approver{
			{UserID: 2, SeqIndex: 0, Status: models.DocStatusRejected, DecidedAt: &decided,
				Note: "не согласен", User: &dbmodels.User{Name: "Первый"}},
		}
		pdfFile, err := impl{}.Generate(rejected)
		require.Nil(t, err)
		require.NotEmpty(t, pdfFile)
	})

	t.Run("документ без согласантов", func(t *testing.T) {
		bare := doc
		bare.Approvers = nil
		pdfFile, err := impl{}.Generate(bare)
		require.Nil(t, err)
		require.NotEmpty(t, pdfFile)
	})
}
