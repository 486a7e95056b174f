package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	"docflow-backend/models/errs"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("user", middleware.GetUserName(ctx))
}

// GetID — числовой идентификатор из параметра пути id.
func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (int64, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (int64, error) {
	value := ctx.Params(key)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("некорректный идентификатор: %v", value)
	}
	return id, nil
}

// SendError — единая точка перевода доменных ошибок в http-статусы.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	logger.WithError(err).Error(hMsg)
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, errs.ErrInvalidStateTransition):
		status = fiber.StatusBadRequest
	case errors.Is(err, errs.ErrUniquenessViolation):
		status = fiber.StatusConflict
	case errors.Is(err, errs.ErrArtifactMissing):
		status = fiber.StatusNotFound
	}
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}
