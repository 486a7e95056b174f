package seal

import (
	"bytes"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"docflow-backend/lib/utils/helpers"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
)

// Provider — генератор листа согласования. Результат прикладывается к
// документу отдельным вложением после финального статуса.
type Provider interface {
	Generate(doc dbmodels.Document) (pdfFile []byte, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

type stampBox struct {
	title    string
	name     string
	time     string
	rejected bool
}

const (
	boxW       = 45.0
	boxH       = 16.0
	marginLeft = 10.0
	gapX       = 3.0
	gapY       = 4.0
	maxPerRow  = 4
)

func (i impl) Generate(doc dbmodels.Document) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("Generate panic recover: %v", r)
		}
	}()
	loc := helpers.DocLocation()

	boxes := []stampBox{
		{
			title: "Created By:",
			name:  creatorName(doc),
			time:  helpers.FormatDocTime(doc.CreatedAt, loc),
		},
	}
	for _, step := range doc.Approvers {
		switch step.Status {
		case models.DocStatusApproved:
			boxes = append(boxes, stampBox{
				title: "Approved By:",
				name:  stepName(step),
				time:  helpers.FormatDocTimePtr(step.DecidedAt, loc),
			})
		case models.DocStatusRejected:
			boxes = append(boxes, stampBox{
				title:    "Rejected By:",
				name:     stepName(step),
				time:     helpers.FormatDocTimePtr(step.DecidedAt, loc),
				rejected: true,
			})
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(marginLeft, 15, "Document Number : "+doc.NoSurat)

	for n, box := range boxes {
		row := n / maxPerRow
		col := n % maxPerRow
		x := marginLeft + float64(col)*(boxW+gapX)
		y := 25 + float64(row)*(boxH+gapY)

		if box.rejected {
			pdf.SetFillColor(255, 178, 204)
		} else {
			pdf.SetFillColor(255, 255, 153)
		}
		pdf.Rect(x, y, boxW, boxH, "F")

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.Text(x+3, y+5, box.title)
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(x+3, y+10, box.name)
		pdf.Text(x+3, y+14, box.time)
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func creatorName(doc dbmodels.Document) string {
	if doc.Creator != nil {
		return doc.Creator.Name
	}
	return "-"
}

func stepName(step dbmodels.Approver) string {
	if step.User != nil {
		return step.User.Name
	}
	return "-"
}
