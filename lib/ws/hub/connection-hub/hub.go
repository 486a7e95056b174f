package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	wsmodels "docflow-backend/models/ws"
)

// Provider — реестр живых ws-сессий. События уходят во все сессии без
// адресации, у одного пользователя может быть несколько подключений.
type Provider interface {
	AddClient(userID int64, conn *websocket.Conn)
	DeleteClient(conn *websocket.Conn)
	Broadcast(event wsmodels.Event)
	Count() int
}

var Instance Provider

func Init() {
	Instance = &impl{
		sessions: map[*websocket.Conn]*clientSession{},
	}
}

type impl struct {
	mu       sync.Mutex
	sessions map[*websocket.Conn]*clientSession
}

func (i *impl) AddClient(userID int64, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sessions[conn] = newSession(conn)
	log.WithField("user_id", userID).Debug("ws-сессия подключена")
}

func (i *impl) DeleteClient(conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.sessions[conn]
	if !ok {
		return
	}
	delete(i.sessions, conn)
	sess.stop()
	close(sess.sendCh)
}

// Broadcast — отправка события всем сессиям; мёртвые выбрасываются из
// реестра по ходу рассылки.
func (i *impl) Broadcast(event wsmodels.Event) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for conn, sess := range i.sessions {
		if !sess.alive() {
			delete(i.sessions, conn)
			sess.stop()
			close(sess.sendCh)
			continue
		}
		select {
		case sess.sendCh <- event:
		default:
			log.WithField("event", string(event.Event)).Warn("переполнен буфер ws-сессии, событие пропущено")
		}
	}
}

func (i *impl) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.sessions)
}
