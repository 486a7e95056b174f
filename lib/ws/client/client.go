package wsclient

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	"docflow-backend/config"
)

func NewClient(userID int64, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
	}
}

type WsClient struct {
	conn   *websocket.Conn
	userID int64
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch — цикл чтения. Если клиент молчит дольше окна тишины,
// сервер шлёт ping; отсутствие ответа до следующего дедлайна рвёт
// соединение.
func (c *WsClient) Dispatch() {
	idle := time.Duration(config.Conf.Ws.IdleTimeoutInSec) * time.Second
	pinged := false
	for {
		if c.conn == nil || c.conn.Conn == nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(idle))
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !pinged && isTimeout(err) {
				pingErr := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second))
				if pingErr == nil {
					pinged = true
					continue
				}
			}
			if !websocket.IsCloseError(err, closeCodes...) && !isTimeout(err) {
				log.WithError(err).Error("ошибка получения сообщения")
			}
			return
		}
		pinged = false
		if msgType == websocket.TextMessage && string(data) == "ping" {
			err = c.conn.WriteMessage(websocket.TextMessage, []byte("pong"))
			if err != nil {
				return
			}
		}
	}
}

func isTimeout(err error) bool {
	type timeout interface {
		Timeout() bool
	}
	te, ok := err.(timeout)
	return ok && te.Timeout()
}
