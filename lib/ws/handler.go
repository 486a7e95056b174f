package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	wsclient "docflow-backend/lib/ws/client"
	connectionhub "docflow-backend/lib/ws/hub/connection-hub"
	"docflow-backend/middleware"
)

func InitWs(app fiber.Router) {
	app.Use("", func(ctx *fiber.Ctx) error {
		userID := middleware.GetUserID(ctx)
		ctx.Locals("userID", userID)
		return ctx.Next()
	})
	app.Get("/", websocket.New(eventsHandler))
}

// @Summary Системные пуши
// @Tags Websocket Системные пуши
// @Description События документооборота, рассылаются всем подключённым сессиям
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.Event
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func eventsHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(int64)
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(userID, c)
	log.
		WithField("user_id", userID).
		WithField("sessions", connectionhub.Instance.Count()).
		Debug("ws-клиент подключён")
	defer func() {
		connectionhub.Instance.DeleteClient(c)
	}()
	client.Dispatch()
}
