package documenthandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docflow-backend/db"
	approvalstore "docflow-backend/lib/approval/store"
	"docflow-backend/lib/docnum"
	recipientstore "docflow-backend/lib/document/recipient-store"
	documentstore "docflow-backend/lib/document/store"
	notifyhandler "docflow-backend/lib/notify"
	usersstore "docflow-backend/lib/users/store"
	"docflow-backend/lib/utils/helpers"
	worklisthandler "docflow-backend/lib/worklist"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
	wsmodels "docflow-backend/models/ws"
)

type Provider interface {
	Create(creatorID int64, data docapimodels.DocumentCreateData) (view docapimodels.DocumentView, err error)
	Detail(documentID, viewerID int64) (view docapimodels.DocumentView, err error)
	Assign(documentID, userID int64, data docapimodels.AssignData) error
	Reasons(documentID, viewerID int64) (list []docapimodels.NoteView, err error)
	MarkInboxRead(documentID, userID int64) error
	DeleteFromSent(documentID, userID int64) error
	DeleteFromInbox(documentID, userID int64) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		docStore:       documentstore.NewInstance(db.DB),
		recipientStore: recipientstore.NewInstance(db.DB),
		usersStore:     usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	docStore       documentstore.Provider
	recipientStore recipientstore.Provider
	usersStore     usersstore.Provider
}

func (i impl) getLogger(documentID int64) *log.Entry {
	return log.WithField("document_id", documentID)
}

// Create — документ, цепочка согласования и получатели создаются одной
// транзакцией вместе с выдачей серийного номера. Гонку номеров ловит
// уникальный индекс.
func (i impl) Create(creatorID int64, data docapimodels.DocumentCreateData) (view docapimodels.DocumentView, err error) {
	err = i.checkUsersExist(append(append([]int64{}, data.ApproverIDs...), data.RecipientIDs...))
	if err != nil {
		return view, err
	}

	var documentID int64
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		noSurat, err := docnum.Next(tx)
		if err != nil {
			return errors.Wrap(err, "ошибка выдачи номера документа")
		}
		docStore := documentstore.NewInstance(tx)
		documentID, err = docStore.Create(dbmodels.Document{
			NoSurat:   noSurat,
			Title:     data.Title,
			Content:   data.Content,
			CreatorID: creatorID,
			Status:    models.DocStatusWaiting,
		})
		if err != nil {
			if docnum.IsUniqueViolation(err) {
				return errors.Wrapf(errs.ErrUniquenessViolation, "номер %v уже занят", noSurat)
			}
			return errors.Wrap(err, "ошибка создания документа")
		}
		stepStore := approvalstore.NewInstance(tx)
		for idx, approverID := range data.ApproverIDs {
			_, err = stepStore.Create(dbmodels.Approver{
				DocumentID: documentID,
				UserID:     approverID,
				SeqIndex:   idx,
				Status:     models.DocStatusWaiting,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка создания шага согласования")
			}
		}
		recStore := recipientstore.NewInstance(tx)
		for _, recipientID := range data.RecipientIDs {
			_, err = recStore.Create(dbmodels.Recipient{
				DocumentID: documentID,
				UserID:     recipientID,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка добавления получателя")
			}
		}
		return nil
	})
	if err != nil {
		return view, err
	}

	doc, err := i.docStore.GetByID(documentID)
	if err != nil || doc == nil {
		return view, errors.Wrap(err, "ошибка получения созданного документа")
	}
	i.getLogger(documentID).WithField("no_surat", doc.NoSurat).Info("создан документ")

	connectionhub.Instance.Broadcast(wsmodels.Event{
		Event:      wsmodels.EventDocumentCreated,
		DocumentID: documentID,
		Title:      doc.Title,
		Status:     string(doc.Status),
	})
	i.announceParticipants(*doc)
	notifyhandler.Instance.NotifyNextApprover(*doc)
	notifyhandler.Instance.NotifyRecipients(*doc)

	return worklisthandler.Project(*doc, creatorID, helpers.DocLocation()), nil
}

func (i impl) Detail(documentID, viewerID int64) (view docapimodels.DocumentView, err error) {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return view, err
	}
	if !doc.HasParticipant(viewerID) {
		return view, errors.Wrap(errs.ErrForbidden, "документ недоступен пользователю")
	}
	return worklisthandler.Project(*doc, viewerID, helpers.DocLocation()), nil
}

// Assign — дополнение участников: новые согласанты встают в хвост
// цепочки, повторное добавление уже участвующих молча пропускается.
func (i impl) Assign(documentID, userID int64, data docapimodels.AssignData) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	if doc.CreatorID != userID {
		return errors.Wrap(errs.ErrForbidden, "участников назначает только автор")
	}
	if doc.Status.IsTerminal() {
		return errors.Wrap(errs.ErrInvalidStateTransition, "документ уже в финальном статусе")
	}
	err = i.checkUsersExist(append(append([]int64{}, data.ApproverIDs...), data.RecipientIDs...))
	if err != nil {
		return err
	}

	nextSeq := 0
	for _, step := range doc.Approvers {
		if step.SeqIndex >= nextSeq {
			nextSeq = step.SeqIndex + 1
		}
	}
	addedRecipients := []int64{}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		stepStore := approvalstore.NewInstance(tx)
		for _, approverID := range data.ApproverIDs {
			if doc.StepOf(approverID) != nil {
				continue
			}
			_, err := stepStore.Create(dbmodels.Approver{
				DocumentID: documentID,
				UserID:     approverID,
				SeqIndex:   nextSeq,
				Status:     models.DocStatusWaiting,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка создания шага согласования")
			}
			nextSeq++
		}
		recStore := recipientstore.NewInstance(tx)
		for _, recipientID := range data.RecipientIDs {
			existing, err := recStore.GetByDocAndUser(documentID, recipientID)
			if err != nil {
				return errors.Wrap(err, "ошибка проверки получателя")
			}
			if existing != nil {
				continue
			}
			_, err = recStore.Create(dbmodels.Recipient{
				DocumentID: documentID,
				UserID:     recipientID,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка добавления получателя")
			}
			addedRecipients = append(addedRecipients, recipientID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.getLogger(documentID).Info("назначены участники")
	connectionhub.Instance.Broadcast(wsmodels.Event{
		Event:      wsmodels.EventDocumentAssigned,
		DocumentID: documentID,
		Title:      doc.Title,
	})
	for _, recipientID := range addedRecipients {
		connectionhub.Instance.Broadcast(wsmodels.Event{
			Event:      wsmodels.EventNewInbox,
			DocumentID: documentID,
			UserID:     recipientID,
			Title:      doc.Title,
		})
	}
	if fresh, err := i.docStore.GetByID(documentID); err == nil && fresh != nil {
		notifyhandler.Instance.NotifyNextApprover(*fresh)
	}
	return nil
}

// Reasons — история замечаний: решения шагов с непустым комментарием.
func (i impl) Reasons(documentID, viewerID int64) (list []docapimodels.NoteView, err error) {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return nil, err
	}
	if !doc.HasParticipant(viewerID) {
		return nil, errors.Wrap(errs.ErrForbidden, "документ недоступен пользователю")
	}
	loc := helpers.DocLocation()
	list = []docapimodels.NoteView{}
	for _, step := range doc.Approvers {
		if step.Note == "" {
			continue
		}
		nv := docapimodels.NoteView{
			UserID:    step.UserID,
			Status:    step.Status,
			Note:      step.Note,
			DecidedAt: helpers.FormatDocTimePtr(step.DecidedAt, loc),
		}
		if step.User != nil {
			nv.Name = step.User.Name
		}
		list = append(list, nv)
	}
	return list, nil
}

// MarkInboxRead — идемпотентная отметка прочтения получателем.
func (i impl) MarkInboxRead(documentID, userID int64) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	rec, err := i.recipientStore.GetByDocAndUser(documentID, userID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения записи получателя")
	}
	if rec == nil {
		return errors.Wrap(errs.ErrForbidden, "пользователь не является получателем")
	}
	changed, err := i.recipientStore.MarkRead(rec.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка отметки прочтения")
	}
	if changed {
		connectionhub.Instance.Broadcast(wsmodels.Event{
			Event:      wsmodels.EventUpdateRead,
			DocumentID: documentID,
			UserID:     userID,
			Title:      doc.Title,
		})
	}
	return nil
}

// DeleteFromSent — скрытие документа у отправителя; маршрут и видимость
// у остальных участников не затрагиваются.
func (i impl) DeleteFromSent(documentID, userID int64) error {
	doc, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	if doc.CreatorID != userID {
		return errors.Wrap(errs.ErrForbidden, "удаление из отправленных доступно только автору")
	}
	found, err := i.docStore.SetDeletedByCreator(documentID, userID)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления документа")
	}
	if !found {
		return errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	i.getLogger(documentID).Info("документ скрыт у отправителя")
	return nil
}

func (i impl) DeleteFromInbox(documentID, userID int64) error {
	_, err := i.getDoc(documentID)
	if err != nil {
		return err
	}
	found, err := i.recipientStore.SetDeleted(documentID, userID)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления из входящих")
	}
	if !found {
		return errors.Wrap(errs.ErrNotFound, "документ не найден во входящих")
	}
	i.getLogger(documentID).Info("документ скрыт у получателя")
	return nil
}

func (i impl) getDoc(documentID int64) (*dbmodels.Document, error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil || doc.IsDeleted {
		return nil, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	return doc, nil
}

func (i impl) checkUsersExist(ids []int64) error {
	for _, id := range ids {
		user, err := i.usersStore.GetByID(id)
		if err != nil {
			return errors.Wrap(err, "ошибка проверки пользователя")
		}
		if user == nil {
			return errors.Wrapf(errs.ErrNotFound, "пользователь %v не найден", id)
		}
	}
	return nil
}

func (i impl) announceParticipants(doc dbmodels.Document) {
	for _, rec := range doc.Recipients {
		connectionhub.Instance.Broadcast(wsmodels.Event{
			Event:      wsmodels.EventNewInbox,
			DocumentID: doc.ID,
			UserID:     rec.UserID,
			Title:      doc.Title,
		})
	}
	if len(doc.Approvers) > 0 {
		connectionhub.Instance.Broadcast(wsmodels.Event{
			Event:      wsmodels.EventNewWaiting,
			DocumentID: doc.ID,
			UserID:     doc.Approvers[0].UserID,
			Title:      doc.Title,
		})
	}
}
