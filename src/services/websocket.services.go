package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"nefllix/src/config"
	"nefllix/src/logger"
	"nefllix/src/middleware"
	authServices "nefllix/src/modules/auth/services"
	libraryLib "nefllix/src/modules/library/lib"
	library "nefllix/src/modules/library/models"
	libraryServices "nefllix/src/modules/library/services"
	profileServices "nefllix/src/modules/profiles/services"
	"nefllix/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsMaxMessage = 4096
)

// ClientMessage is what a player sends over the progress socket.
type ClientMessage struct {
	Type          string              `json:"type"`
	ContentID     string              `json:"contentId"`
	ContentType   library.ContentType `json:"contentType"`
	Progress      float64             `json:"progress"`
	SeasonNumber  *int                `json:"seasonNumber"`
	EpisodeNumber *int                `json:"episodeNumber"`
	Completed     bool                `json:"completed"`
}

type ServerMessage struct {
	Type     string            `json:"type"`
	Watching *library.Watching `json:"watching,omitempty"`
	Error    string            `json:"error,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return config.App.OriginAllowed(r.Header.Get("Origin"))
	},
}

// wsConn serialises writes so at most one is in flight per connection.
type wsConn struct {
	conn      *websocket.Conn
	profileID string
	mu        sync.Mutex
}

func (c *wsConn) send(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// progressHub tracks open sockets per profile so one device's progress
// reaches the profile's other devices.
type progressHub struct {
	mu    sync.RWMutex
	conns map[string]map[*wsConn]struct{}
}

var hub = &progressHub{conns: map[string]map[*wsConn]struct{}{}}

func (h *progressHub) add(c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c.profileID] == nil {
		h.conns[c.profileID] = map[*wsConn]struct{}{}
	}
	h.conns[c.profileID][c] = struct{}{}
}

func (h *progressHub) remove(c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[c.profileID], c)
	if len(h.conns[c.profileID]) == 0 {
		delete(h.conns, c.profileID)
	}
}

func (h *progressHub) broadcast(from *wsConn, msg ServerMessage) {
	h.mu.RLock()
	peers := make([]*wsConn, 0, len(h.conns[from.profileID]))
	for c := range h.conns[from.profileID] {
		if c != from {
			peers = append(peers, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range peers {
		if err := c.send(msg); err != nil {
			logger.Debug("[WS] failed to notify peer", "profile_id", c.profileID, "err", err)
		}
	}
}

// WebSocketHandler authenticates like the HTTP routes before upgrading:
// ?token= carries the session and ?profileToken= unlocks locked profiles.
func WebSocketHandler(c *gin.Context) {
	ctx := c.Request.Context()
	_, user, err := authServices.GetSessionAndUser(ctx, middleware.ExtractSessionToken(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	profile, err := profileServices.AuthorizeProfile(ctx, user.ID, c.Query("profileId"), c.Query("profileToken"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("[WS] upgrade failed", "err", err)
		return
	}

	client := &wsConn{conn: conn, profileID: profile.ID}
	hub.add(client)
	logger.Info("[WS] client connected", "user_id", user.ID, "profile_id", profile.ID)

	defer func() {
		hub.remove(client)
		_ = conn.Close()
		logger.Info("[WS] client disconnected", "profile_id", profile.ID)
	}()

	serveProgress(context.WithoutCancel(ctx), client)
}

func serveProgress(ctx context.Context, client *wsConn) {
	conn := client.conn
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("[WS] read failed", "profile_id", client.profileID, "err", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		reply, broadcast := handleMessage(ctx, client.profileID, data)
		if err := client.send(reply); err != nil {
			return
		}
		if broadcast {
			hub.broadcast(client, ServerMessage{Type: "sync", Watching: reply.Watching})
		}
	}
}

// handleMessage answers one client frame. The bool reports whether the reply
// should also reach the profile's other sockets.
func handleMessage(ctx context.Context, profileID string, data []byte) (ServerMessage, bool) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ServerMessage{Type: "error", Error: "invalid message"}, false
	}

	switch msg.Type {
	case "ping":
		return ServerMessage{Type: "pong"}, false
	case "progress":
		watching, err := libraryServices.UpdateProgress(ctx, profileID, libraryLib.ProgressRequest{
			ContentID:     msg.ContentID,
			ContentType:   msg.ContentType,
			Progress:      msg.Progress,
			SeasonNumber:  msg.SeasonNumber,
			EpisodeNumber: msg.EpisodeNumber,
			Completed:     msg.Completed,
		})
		if err != nil {
			return ServerMessage{Type: "error", Error: utils.PublicMessage(err)}, false
		}
		return ServerMessage{Type: "ack", Watching: watching}, true
	default:
		return ServerMessage{Type: "error", Error: "unknown message type"}, false
	}
}
