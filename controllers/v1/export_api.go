package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"docflow-backend/controllers"
	"docflow-backend/db"
	documentstore "docflow-backend/lib/document/store"
	xlsexport "docflow-backend/lib/export/xls"
	"docflow-backend/middleware"
)

type exportApiController struct {
	controllers.BaseAPIController
}

func InitExportApiRouters(app fiber.Router) {
	controller := exportApiController{}
	app.Get("export/register", controller.exportRegister)
}

// @Summary Выгрузка реестра документов
// @Tags Экспорт
// @Description Реестр документов автора в формате xlsx
// @Success 200
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/export/register [get]
func (c *exportApiController) exportRegister(ctx *fiber.Ctx) error {
	list, err := documentstore.NewInstance(db.DB).ListByCreator(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов")
	}
	buf, err := xlsexport.Instance.ExportRegister(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования реестра")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="register.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}
