package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	approvalhandler "docflow-backend/lib/approval"
	documenthandler "docflow-backend/lib/document"
	worklisthandler "docflow-backend/lib/worklist"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	docapimodels "docflow-backend/models/api/document"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitDocumentApiRouters(app fiber.Router) {
	controller := documentApiController{}
	app.Route("documents", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("dashboard", controller.dashboard)
		router.Get("unread", controller.unread)
		router.Get(":id", controller.detail)
		router.Post(":id/assign", controller.assign)
		router.Post(":id/approve", controller.approve)
		router.Post(":id/reject", controller.reject)
		router.Post(":id/revise", controller.revise)
		router.Post(":id/resubmit", controller.resubmit)
		router.Post(":id/read", controller.markRead)
		router.Post(":id/read-step", controller.markStepRead)
		router.Get(":id/reasons", controller.reasons)
		router.Delete(":id/sent", controller.deleteFromSent)
		router.Delete(":id/inbox", controller.deleteFromInbox)
	})
}

// @Summary Создание документа
// @Tags Документы
// @Description Создание документа с цепочкой согласования и получателями
// @Param	body				body		docapimodels.DocumentCreateData	true	"request body"
// @Success 200 {object} docapimodels.DocumentView
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents [post]
func (c *documentApiController) create(ctx *fiber.Ctx) error {
	var payload docapimodels.DocumentCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := documenthandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Рабочие списки
// @Tags Документы
// @Description Пять рабочих списков пользователя
// @Success 200 {object} docapimodels.Dashboard
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/dashboard [get]
func (c *documentApiController) dashboard(ctx *fiber.Ctx) error {
	dashboard, err := worklisthandler.Instance.Dashboard(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения рабочих списков")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dashboard))
}

// @Summary Непрочитанное
// @Tags Документы
// @Description Непрочитанные входящие и ожидающие решения документы
// @Success 200 {object} docapimodels.UnreadSummary
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/unread [get]
func (c *documentApiController) unread(ctx *fiber.Ctx) error {
	summary, err := worklisthandler.Instance.UnreadSummary(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения непрочитанного")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(summary))
}

// @Summary Карточка документа
// @Tags Документы
// @Description Карточка документа для участника маршрута
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200 {object} docapimodels.DocumentView
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [get]
func (c *documentApiController) detail(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := documenthandler.Instance.Detail(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Назначение участников
// @Tags Документы
// @Description Дополнение цепочки согласования и списка получателей
// @Param	id					path		int		true	"идентификатор документа"
// @Param	body				body		docapimodels.AssignData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/assign [post]
func (c *documentApiController) assign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload docapimodels.AssignData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = documenthandler.Instance.Assign(id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения участников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Согласование шага
// @Tags Документы
// @Description Согласование собственного шага, строго по порядку цепочки
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/approve [post]
func (c *documentApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.Approve(ctx.UserContext(), id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонение документа
// @Tags Документы
// @Description Отклонение с указанием причины, доступно вне очереди
// @Param	id					path		int		true	"идентификатор документа"
// @Param	body				body		docapimodels.RejectData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/reject [post]
func (c *documentApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload docapimodels.RejectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.Reject(ctx.UserContext(), id, middleware.GetUserID(ctx), payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Возврат на доработку
// @Tags Документы
// @Description Возврат автору с замечанием, доступно вне очереди
// @Param	id					path		int		true	"идентификатор документа"
// @Param	body				body		docapimodels.ReviseData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/revise [post]
func (c *documentApiController) revise(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload docapimodels.ReviseData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.Revise(id, middleware.GetUserID(ctx), payload.Note)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка возврата на доработку")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Повторная подача
// @Tags Документы
// @Description Повторная подача после доработки, цепочка начинается заново
// @Param	id					path		int		true	"идентификатор документа"
// @Param	body				body		docapimodels.ResubmitData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/resubmit [post]
func (c *documentApiController) resubmit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload docapimodels.ResubmitData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.Resubmit(id, middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка повторной подачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отметка прочтения получателем
// @Tags Документы
// @Description Идемпотентная отметка прочтения входящего документа
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/read [post]
func (c *documentApiController) markRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = documenthandler.Instance.MarkInboxRead(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки прочтения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отметка прочтения согласантом
// @Tags Документы
// @Description Отметка, что согласант открыл документ из очереди
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/read-step [post]
func (c *documentApiController) markStepRead(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalhandler.Instance.MarkStepRead(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки прочтения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Замечания по документу
// @Tags Документы
// @Description История решений с комментариями
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200 {array} docapimodels.NoteView
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/reasons [get]
func (c *documentApiController) reasons(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := documenthandler.Instance.Reasons(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения замечаний")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Удаление из отправленных
// @Tags Документы
// @Description Скрытие документа у отправителя, маршрут не затрагивается
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/sent [delete]
func (c *documentApiController) deleteFromSent(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = documenthandler.Instance.DeleteFromSent(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления из отправленных")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление из входящих
// @Tags Документы
// @Description Скрытие документа у получателя
// @Param	id					path		int		true	"идентификатор документа"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/inbox [delete]
func (c *documentApiController) deleteFromInbox(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = documenthandler.Instance.DeleteFromInbox(id, middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления из входящих")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
