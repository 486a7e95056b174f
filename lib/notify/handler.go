package notifyhandler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"docflow-backend/lib/sequence"
	"docflow-backend/lib/smtp"
	dbmodels "docflow-backend/models/db"
)

// Provider — почтовые уведомления участникам. Ошибки отправки логируются
// и не влияют на результат вызвавшей операции.
type Provider interface {
	NotifyNextApprover(doc dbmodels.Document)
	NotifyRecipients(doc dbmodels.Document)
	NotifyCreator(doc dbmodels.Document, subject, message string)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		emailSender: smtp.Instance,
	}
}

type impl struct {
	emailSender smtp.Provider
}

func (i impl) getLogger(doc dbmodels.Document) *log.Entry {
	return log.WithField("document_id", doc.ID)
}

// NotifyNextApprover — письмо ближайшему согласанту, чей шаг доступен
// для решения.
func (i impl) NotifyNextApprover(doc dbmodels.Document) {
	next := sequence.NextPending(doc.Approvers)
	if next == nil || next.User == nil || next.User.Email == "" {
		return
	}
	message := fmt.Sprintf("Документ %v «%v» ожидает вашего согласования.", doc.NoSurat, doc.Title)
	err := i.emailSender.SendEMail(next.User.Email, message, "Документ на согласовании")
	if err != nil {
		i.getLogger(doc).WithError(err).Error("не удалось уведомить согласанта")
	}
}

func (i impl) NotifyRecipients(doc dbmodels.Document) {
	message := fmt.Sprintf("Вам направлен документ %v «%v».", doc.NoSurat, doc.Title)
	for _, rec := range doc.Recipients {
		if rec.User == nil || rec.User.Email == "" {
			continue
		}
		err := i.emailSender.SendEMail(rec.User.Email, message, "Новый документ")
		if err != nil {
			i.getLogger(doc).WithError(err).Error("не удалось уведомить получателя")
		}
	}
}

func (i impl) NotifyCreator(doc dbmodels.Document, subject, message string) {
	if doc.Creator == nil || doc.Creator.Email == "" {
		return
	}
	err := i.emailSender.SendEMail(doc.Creator.Email, message, subject)
	if err != nil {
		i.getLogger(doc).WithError(err).Error("не удалось уведомить автора")
	}
}
