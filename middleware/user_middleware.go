package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	authutils "docflow-backend/lib/utils/auth-utils"
)

// GetUserID — идентификатор пользователя из jwt клеймов, 0 если токена нет.
func GetUserID(ctx *fiber.Ctx) int64 {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		if str, ok := sub.(string); ok {
			id, err := strconv.ParseInt(str, 10, 64)
			if err == nil {
				return id
			}
		}
	}
	return 0
}

func GetUserName(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if name, exist := claims["name"]; exist {
		if str, ok := name.(string); ok {
			return str
		}
	}
	return ""
}
