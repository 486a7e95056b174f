package attachmenthandler

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"docflow-backend/config"
	"docflow-backend/db"
	attachmentstore "docflow-backend/lib/attachment/store"
	documentstore "docflow-backend/lib/document/store"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/models"
	docapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
	"docflow-backend/models/errs"
	s3client "docflow-backend/s3"
)

// FileData — содержимое файла для отдачи клиенту.
type FileData struct {
	FileName    string
	ContentType string
	Body        []byte
}

type Provider interface {
	Upload(ctx context.Context, documentID, userID int64, fileName, contentType string, body []byte) (view docapimodels.AttachmentView, err error)
	UploadRevision(ctx context.Context, documentID, userID int64, fileName, contentType string, body []byte) (view docapimodels.AttachmentView, err error)
	Download(ctx context.Context, documentID, userID, attachmentID int64) (file FileData, err error)
	DownloadSealed(ctx context.Context, documentID, userID int64) (file FileData, err error)
	Trash(userID int64) (list []docapimodels.TrashFileView, err error)
	StoreSealed(ctx context.Context, documentID int64, fileName string, body []byte) error
	PurgeObjects(ctx context.Context, doc dbmodels.Document)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:    attachmentstore.NewInstance(db.DB),
		docStore: documentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store    attachmentstore.Provider
	docStore documentstore.Provider
}

func (i impl) getLogger(documentID int64) *log.Entry {
	return log.WithField("document_id", documentID)
}

// Upload — загрузка файла автором. Разрешена, пока документ не получил
// финальный статус.
func (i impl) Upload(ctx context.Context, documentID, userID int64, fileName, contentType string, body []byte) (view docapimodels.AttachmentView, err error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil || doc.IsDeleted {
		return view, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	if doc.CreatorID != userID {
		return view, errors.Wrap(errs.ErrForbidden, "файлы загружает только автор документа")
	}
	if doc.Status.IsTerminal() {
		return view, errors.Wrap(errs.ErrInvalidStateTransition, "документ уже в финальном статусе")
	}
	rec, err := i.put(ctx, documentID, fileName, contentType, body)
	if err != nil {
		return view, err
	}
	return AttachmentConvert(*rec), nil
}

// UploadRevision — замена файлов при доработке: прежние вложения уходят
// в корзину, новый файл становится текущим.
func (i impl) UploadRevision(ctx context.Context, documentID, userID int64, fileName, contentType string, body []byte) (view docapimodels.AttachmentView, err error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil || doc.IsDeleted {
		return view, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	if doc.CreatorID != userID {
		return view, errors.Wrap(errs.ErrForbidden, "файлы загружает только автор документа")
	}
	if doc.Status != models.DocStatusRevise {
		return view, errors.Wrap(errs.ErrInvalidStateTransition, "замена файлов доступна только на доработке")
	}
	err = i.store.SetDeletedByDocument(documentID)
	if err != nil {
		return view, errors.Wrap(err, "ошибка вытеснения прежних файлов")
	}
	rec, err := i.put(ctx, documentID, fileName, contentType, body)
	if err != nil {
		return view, err
	}
	return AttachmentConvert(*rec), nil
}

func (i impl) Download(ctx context.Context, documentID, userID, attachmentID int64) (file FileData, err error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return file, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil {
		return file, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	if !doc.HasParticipant(userID) {
		return file, errors.Wrap(errs.ErrForbidden, "документ недоступен пользователю")
	}
	rec, err := i.store.GetByID(documentID, attachmentID)
	if err != nil {
		return file, errors.Wrap(err, "ошибка получения вложения")
	}
	if rec == nil {
		return file, errors.Wrap(errs.ErrNotFound, "вложение не найдено")
	}
	return i.fetch(ctx, *rec)
}

func (i impl) DownloadSealed(ctx context.Context, documentID, userID int64) (file FileData, err error) {
	doc, err := i.docStore.GetByID(documentID)
	if err != nil {
		return file, errors.Wrap(err, "ошибка получения документа")
	}
	if doc == nil {
		return file, errors.Wrap(errs.ErrNotFound, "документ не найден")
	}
	if !doc.HasParticipant(userID) {
		return file, errors.Wrap(errs.ErrForbidden, "документ недоступен пользователю")
	}
	sealed := doc.SealedAttachment()
	if sealed == nil {
		return file, errors.Wrap(errs.ErrArtifactMissing, "финальный файл ещё не сформирован")
	}
	return i.fetch(ctx, *sealed)
}

func (i impl) Trash(userID int64) (list []docapimodels.TrashFileView, err error) {
	recs, err := i.store.ListTrashForUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения корзины")
	}
	loc := helpers.DocLocation()
	list = make([]docapimodels.TrashFileView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, docapimodels.TrashFileView{
			ID:         rec.ID,
			DocumentID: rec.DocumentID,
			FileName:   rec.FileName,
			CreatedAt:  helpers.FormatDocTime(rec.CreatedAt, loc),
		})
	}
	return list, nil
}

// StoreSealed — сохранение листа согласования, вызывается обработчиком
// согласования после фиксации финального статуса.
func (i impl) StoreSealed(ctx context.Context, documentID int64, fileName string, body []byte) error {
	_, err := i.put(ctx, documentID, fileName, "application/pdf", body)
	return err
}

// PurgeObjects — зачистка объектов документа в хранилище при физическом
// удалении. Сбой удаления отдельного объекта логируется и каскад не
// прерывает.
func (i impl) PurgeObjects(ctx context.Context, doc dbmodels.Document) {
	for _, rec := range doc.Attachments {
		if helpers.IsContextDone(ctx) {
			return
		}
		err := s3client.Client.RemoveObject(ctx, config.Conf.S3.BucketName, rec.ObjectKey, minio.RemoveObjectOptions{})
		if err != nil {
			i.getLogger(doc.ID).
				WithField("object_key", rec.ObjectKey).
				WithError(err).
				Warn("не удалось удалить объект из хранилища")
		}
	}
}

func (i impl) put(ctx context.Context, documentID int64, fileName, contentType string, body []byte) (*dbmodels.Attachment, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := fmt.Sprintf("%v_%v", uuid.NewString(), fileName)
	_, err := s3client.Client.PutObject(ctx, config.Conf.S3.BucketName, objectKey,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка записи файла в хранилище")
	}
	rec := dbmodels.Attachment{
		DocumentID:  documentID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения вложения")
	}
	rec.ID = id
	i.getLogger(documentID).
		WithField("object_key", objectKey).
		Info("файл загружен")
	return &rec, nil
}

func (i impl) fetch(ctx context.Context, rec dbmodels.Attachment) (file FileData, err error) {
	obj, err := s3client.Client.GetObject(ctx, config.Conf.S3.BucketName, rec.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return file, errors.Wrap(errs.ErrArtifactMissing, err.Error())
	}
	defer obj.Close()
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(obj)
	if err != nil {
		return file, errors.Wrap(errs.ErrArtifactMissing, err.Error())
	}
	return FileData{
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		Body:        buf.Bytes(),
	}, nil
}

func AttachmentConvert(rec dbmodels.Attachment) docapimodels.AttachmentView {
	return docapimodels.AttachmentView{
		ID:          rec.ID,
		FileName:    rec.FileName,
		IsSealed:    rec.IsSealed(),
		DownloadURL: fmt.Sprintf("/api/v1/documents/%v/attachments/%v", rec.DocumentID, rec.ID),
	}
}
