package apiv1

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"docflow-backend/controllers"
	attachmenthandler "docflow-backend/lib/attachment"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
)

type attachmentApiController struct {
	controllers.BaseAPIController
}

func InitAttachmentApiRouters(app fiber.Router) {
	controller := attachmentApiController{}
	app.Route("documents/:id/attachments", func(router fiber.Router) {
		router.Post("", controller.upload)
		router.Post("revision", controller.uploadRevision)
		router.Get("stamped", controller.downloadSealed)
		router.Get(":fileId", controller.download)
	})
	app.Get("files/trash", controller.trash)
}

// @Summary Загрузка файла
// @Tags Вложения
// @Description Загрузка файла автором документа
// @Param	id					path		int		true	"идентификатор документа"
// @Param	file				formData	file	true	"файл"
// @Success 200 {object} docapimodels.AttachmentView
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/attachments [post]
func (c *attachmentApiController) upload(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileName, contentType, body, err := readFormFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := attachmenthandler.Instance.Upload(ctx.UserContext(), id, middleware.GetUserID(ctx), fileName, contentType, body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки файла")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Замена файлов при доработке
// @Tags Вложения
// @Description Прежние файлы уходят в корзину, новый становится текущим
// @Param	id					path		int		true	"идентификатор документа"
// @Param	file				formData	file	true	"файл"
// @Success 200 {object} docapimodels.AttachmentView
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/attachments/revision [post]
func (c *attachmentApiController) uploadRevision(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileName, contentType, body, err := readFormFile(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := attachmenthandler.Instance.UploadRevision(ctx.UserContext(), id, middleware.GetUserID(ctx), fileName, contentType, body)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка замены файлов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Скачивание файла
// @Tags Вложения
// @Description Скачивание вложения участником маршрута
// @Param	id					path		int		true	"идентификатор документа"
// @Param	fileId				path		int		true	"идентификатор вложения"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/attachments/{fileId} [get]
func (c *attachmentApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileID, err := c.GetIDByKey(ctx, "fileId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := attachmenthandler.Instance.Download(ctx.UserContext(), id, middleware.GetUserID(ctx), fileID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания файла")
	}
	return sendFile(ctx, file)
}

// @Summary Скачивание финального файла
// @Tags Вложения
// @Description Скачивание листа согласования завершённого документа
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/attachments/stamped [get]
func (c *attachmentApiController) downloadSealed(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := attachmenthandler.Instance.DownloadSealed(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания финального файла")
	}
	return sendFile(ctx, file)
}

// @Summary Корзина файлов
// @Tags Вложения
// @Description Удалённые файлы документов пользователя
// @Success 200 {array} docapimodels.TrashFileView
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/files/trash [get]
func (c *attachmentApiController) trash(ctx *fiber.Ctx) error {
	list, err := attachmenthandler.Instance.Trash(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения корзины")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

func readFormFile(ctx *fiber.Ctx) (fileName, contentType string, body []byte, err error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return "", "", nil, errors.New("не удалось получить файл из запроса")
	}
	body, err = readMultipart(fileHeader)
	if err != nil {
		return "", "", nil, err
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), body, nil
}

func readMultipart(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "не удалось открыть файл")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "не удалось прочитать файл")
	}
	return body, nil
}

func sendFile(ctx *fiber.Ctx, file attachmenthandler.FileData) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, file.FileName))
	return ctx.Status(fiber.StatusOK).Send(file.Body)
}
