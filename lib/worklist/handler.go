package worklisthandler

import (
	"time"

	"github.com/pkg/errors"

	"docflow-backend/db"
	attachmenthandler "docflow-backend/lib/attachment"
	"docflow-backend/lib/sequence"
	"docflow-backend/lib/utils/helpers"
	workliststore "docflow-backend/lib/worklist/store"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	Dashboard(userID int64) (dashboard docapimodels.Dashboard, err error)
	UnreadSummary(userID int64) (summary docapimodels.UnreadSummary, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: workliststore.NewInstance(db.DB),
	}
}

type impl struct {
	store workliststore.Provider
}

// Dashboard — пять рабочих списков. Каждый список пересчитывается по
// текущему состоянию БД, кешей и денормализованных счётчиков нет.
func (i impl) Dashboard(userID int64) (dashboard docapimodels.Dashboard, err error) {
	loc := helpers.DocLocation()

	approvedByMe, err := i.store.ApprovedByMe(userID)
	if err != nil {
		return dashboard, errors.Wrap(err, "ошибка выборки согласованных")
	}
	myFinalized, err := i.store.MyFinalized(userID)
	if err != nil {
		return dashboard, errors.Wrap(err, "ошибка выборки завершённых")
	}
	pending, err := i.store.PendingButWaiting(userID)
	if err != nil {
		return dashboard, errors.Wrap(err, "ошибка выборки ожидающих очереди")
	}
	ready, err := i.store.ReadyToApprove(userID)
	if err != nil {
		return dashboard, errors.Wrap(err, "ошибка выборки доступных к решению")
	}
	inbox, err := i.store.Inbox(userID)
	if err != nil {
		return dashboard, errors.Wrap(err, "ошибка выборки входящих")
	}

	dashboard = docapimodels.Dashboard{
		ApprovedByMe:      projectList(approvedByMe, userID, loc),
		MyFinalized:       projectList(myFinalized, userID, loc),
		PendingButWaiting: projectList(pending, userID, loc),
		ReadyToApprove:    projectList(ready, userID, loc),
		Inbox:             projectList(inbox, userID, loc),
	}
	return dashboard, nil
}

func (i impl) UnreadSummary(userID int64) (summary docapimodels.UnreadSummary, err error) {
	loc := helpers.DocLocation()
	summary = docapimodels.UnreadSummary{
		Inbox:   []docapimodels.UnreadItem{},
		Waiting: []docapimodels.UnreadItem{},
	}

	inbox, err := i.store.UnreadInbox(userID)
	if err != nil {
		return summary, errors.Wrap(err, "ошибка выборки непрочитанных входящих")
	}
	for _, doc := range inbox {
		summary.Inbox = append(summary.Inbox, unreadItem(doc, "inbox", loc))
	}

	waiting, err := i.store.UnreadWaiting(userID)
	if err != nil {
		return summary, errors.Wrap(err, "ошибка выборки непрочитанных согласований")
	}
	for _, doc := range waiting {
		summary.Waiting = append(summary.Waiting, unreadItem(doc, "waiting", loc))
	}
	return summary, nil
}

func unreadItem(doc dbmodels.Document, kind string, loc *time.Location) docapimodels.UnreadItem {
	return docapimodels.UnreadItem{
		ID:        doc.ID,
		Title:     doc.Title,
		Kind:      kind,
		CreatedAt: helpers.FormatDocTime(doc.CreatedAt, loc),
	}
}

func projectList(list []dbmodels.Document, viewerID int64, loc *time.Location) []docapimodels.DocumentView {
	result := make([]docapimodels.DocumentView, 0, len(list))
	for _, doc := range list {
		result = append(result, Project(doc, viewerID, loc))
	}
	return result
}

// Project — проекция документа для конкретного читателя: его роль,
// отметки прочтения и ссылка на финальный файл считаются на каждом
// чтении заново.
func Project(doc dbmodels.Document, viewerID int64, loc *time.Location) docapimodels.DocumentView {
	view := docapimodels.DocumentView{
		ID:         doc.ID,
		NoSurat:    doc.NoSurat,
		Title:      doc.Title,
		Content:    doc.Content,
		Status:     doc.Status,
		IsCreator:  doc.CreatorID == viewerID,
		CreatedAt:  helpers.FormatDocTime(doc.CreatedAt, loc),
		Approvers:  make([]docapimodels.ApproverView, 0, len(doc.Approvers)),
		Recipients: make([]docapimodels.RecipientView, 0, len(doc.Recipients)),
		Files:      make([]docapimodels.AttachmentView, 0, len(doc.Attachments)),
		SealedFile: docapimodels.NoSealedSentinel,
		IsRead:     true,
	}
	if doc.Creator != nil {
		view.Creator = doc.Creator.Name
	}

	for _, step := range doc.Approvers {
		av := docapimodels.ApproverView{
			UserID:    step.UserID,
			SeqIndex:  step.SeqIndex,
			Status:    step.Status,
			Note:      step.Note,
			DecidedAt: helpers.FormatDocTimePtr(step.DecidedAt, loc),
		}
		if step.User != nil {
			av.Name = step.User.Name
		}
		view.Approvers = append(view.Approvers, av)
	}

	for _, rec := range doc.Recipients {
		rv := docapimodels.RecipientView{UserID: rec.UserID}
		if rec.User != nil {
			rv.Name = rec.User.Name
		}
		view.Recipients = append(view.Recipients, rv)
		if rec.UserID == viewerID {
			view.IsRead = rec.IsRead
			if !rec.IsRead {
				view.Unread = true
			}
		}
	}

	for _, att := range doc.Attachments {
		if att.IsDeleted {
			continue
		}
		view.Files = append(view.Files, attachmenthandler.AttachmentConvert(att))
	}
	if sealed := doc.SealedAttachment(); sealed != nil {
		view.SealedFile = sealed.FileName
	}

	// Непрочитанным документ считается и для согласанта, чей шаг уже
	// доступен для решения, но ещё не открыт.
	if step := doc.StepOf(viewerID); step != nil {
		if step.Status == models.DocStatusWaiting && !step.HasRead &&
			doc.Status == models.DocStatusWaiting &&
			sequence.IsActionable(doc.Approvers, *step) {
			view.Unread = true
		}
	}
	return view
}
