package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	usershandler "docflow-backend/lib/users"
	apimodels "docflow-backend/models/api"
	userapimodels "docflow-backend/models/api/user"
)

type adminApiController struct {
	controllers.BaseAPIController
}

func InitAdminApiRouters(app fiber.Router) {
	controller := adminApiController{}
	app.Post("password", controller.setPassword)
	app.Post("delete_user", controller.deleteUser)
}

// @Summary Смена пароля пользователя
// @Tags Админка
// @Description Принудительная смена пароля по мастер-ключу
// @Param	X-MASTER-KEY		header		string	true	"мастер-ключ"
// @Param	body				body		userapimodels.AdminSetPasswordData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/password [post]
func (c *adminApiController) setPassword(ctx *fiber.Ctx) error {
	var payload userapimodels.AdminSetPasswordData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err := usershandler.Instance.SetPassword(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка смены пароля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление пользователя
// @Tags Админка
// @Description Мягкое или полное удаление пользователя по мастер-ключу
// @Param	X-MASTER-KEY		header		string	true	"мастер-ключ"
// @Param	body				body		userapimodels.AdminDeleteUserData	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/delete_user [post]
func (c *adminApiController) deleteUser(ctx *fiber.Ctx) error {
	var payload userapimodels.AdminDeleteUserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err := usershandler.Instance.Delete(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
