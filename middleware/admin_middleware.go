package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"docflow-backend/config"
	apimodels "docflow-backend/models/api"
)

// MasterKeyRequired — служебные операции доступны только с ключом из
// заголовка X-MASTER-KEY.
func MasterKeyRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		masterKey := config.Conf.Admin.MasterKey
		if masterKey == "" {
			return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("сервис не сконфигурирован (нет MASTER_KEY)"))
		}
		header := ctx.Get("X-MASTER-KEY")
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(masterKey)) != 1 {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("неверный мастер-ключ"))
		}
		return ctx.Next()
	}
}
