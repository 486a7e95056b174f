package xlsexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"docflow-backend/lib/utils/helpers"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	ExportRegister(list []dbmodels.Document) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var registerHeaders = []string{"№", "Номер документа", "Заголовок", "Статус", "Автор", "Дата создания", "Цепочка согласования", "Получатели"}

// ExportRegister — реестр документов автора для выгрузки в xlsx.
func (i impl) ExportRegister(list []dbmodels.Document) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, registerHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeRegisterData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Реестр документов")
	return f.WriteToBuffer()
}

func writeRegisterData(f *excelize.File, sheet string, list []dbmodels.Document, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(registerHeaders), len(list)+1); err != nil {
		return row, err
	}
	loc := helpers.DocLocation()
	for num, item := range list {
		row++
		// "№"
		col := 1
		if err := writeColumn(f, sheet, col, row, num+1); err != nil {
			return row, err
		}

		// "Номер документа"
		col++
		if err := writeColumn(f, sheet, col, row, item.NoSurat); err != nil {
			return row, err
		}

		// "Заголовок"
		col++
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		// "Автор"
		col++
		creator := ""
		if item.Creator != nil {
			creator = item.Creator.Name
		}
		if err := writeColumn(f, sheet, col, row, creator); err != nil {
			return row, err
		}

		// "Дата создания"
		col++
		if err := writeColumn(f, sheet, col, row, helpers.FormatDocTime(item.CreatedAt, loc)); err != nil {
			return row, err
		}

		// "Цепочка согласования"
		col++
		if err := writeColumn(f, sheet, col, row, approverChain(item)); err != nil {
			return row, err
		}

		// "Получатели"
		col++
		if err := writeColumn(f, sheet, col, row, recipientList(item)); err != nil {
			return row, err
		}
	}
	return row, nil
}

func approverChain(doc dbmodels.Document) string {
	parts := make([]string, 0, len(doc.Approvers))
	for _, step := range doc.Approvers {
		name := fmt.Sprintf("#%v", step.UserID)
		if step.User != nil {
			name = step.User.Name
		}
		parts = append(parts, fmt.Sprintf("%v (%v)", name, step.Status))
	}
	return strings.Join(parts, " -> ")
}

func recipientList(doc dbmodels.Document) string {
	parts := make([]string, 0, len(doc.Recipients))
	for _, rec := range doc.Recipients {
		if rec.User != nil {
			parts = append(parts, rec.User.Name)
		}
	}
	return strings.Join(parts, ", ")
}
