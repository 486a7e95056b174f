package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	usershandler "docflow-backend/lib/users"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app fiber.Router) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Get("me", controller.me)
	})
}

// @Summary Справочник пользователей
// @Tags Пользователи
// @Description Справочник пользователей для выбора участников маршрута
// @Success 200 {array} userapimodels.UserView
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	list, err := usershandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Текущий пользователь
// @Tags Пользователи
// @Description Профиль авторизованного пользователя
// @Success 200 {object} userapimodels.UserView
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me [get]
func (c *userApiController) me(ctx *fiber.Ctx) error {
	view, err := usershandler.Instance.GetByID(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения профиля")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
