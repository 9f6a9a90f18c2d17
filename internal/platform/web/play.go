package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/riannelimje/git-streak/internal/game"
	"github.com/riannelimje/git-streak/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Bound on fetching the next year for a new_game command.
	newGameTimeout = 30 * time.Second
)

// A nil CheckOrigin rejects browser requests whose Origin host differs from
// the request Host. Clients that send no Origin are allowed.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Command is a message from the browser.
//
//	{"type":"direction","direction":"UP"}
//	{"type":"pause","paused":true}
//	{"type":"restart"}
//	{"type":"new_game"}
type Command struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Paused    bool   `json:"paused,omitempty"`
}

// Message is sent to the browser: a snapshot after every transition, or an
// error for a command that could not be applied.
type Message struct {
	Type     string            `json:"type"` // "snapshot" or "error"
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// client pumps one websocket connection to and from one session.
type client struct {
	ctx     context.Context // cancelled when the connection closes
	srv     *Server
	conn    *websocket.Conn
	sess    *session.Session
	source  string
	dataset string
	notices chan Message
	logger  *log.Logger
}

// handlePlay starts a live game on the requested source and streams it.
func (s *Server) handlePlay(c *gin.Context) {
	source, dataset := c.Param("source"), c.Query("dataset")

	grid, err := s.loadGrid(c.Request.Context(), source, dataset)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	sess := session.New(game.Initialize(grid, game.WithGrowthPolicy(s.opts.Growth)), s.opts.Tick, s.logger)
	s.sessions.Register(sess)
	go sess.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cl := &client{
		ctx:     ctx,
		srv:     s,
		conn:    conn,
		sess:    sess,
		source:  source,
		dataset: dataset,
		notices: make(chan Message, 8),
		logger:  s.logger.With("session", string(sess.ID()), "source", source),
	}
	cl.logger.Info("Game started", "remote", c.Request.RemoteAddr)

	go cl.writePump()
	cl.readPump()

	cancel()
	sess.Stop()
	s.sessions.Unregister(sess.ID())
	cl.logger.Info("Game ended")
}

// readPump applies browser commands until the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Websocket closed", "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.notify("invalid command: " + err.Error())
			continue
		}
		c.handle(cmd)
	}
}

func (c *client) handle(cmd Command) {
	switch cmd.Type {
	case "direction":
		dir, err := game.ParseDirection(cmd.Direction)
		if err != nil {
			c.notify(err.Error())
			return
		}
		c.sess.Dispatch(game.ChangeDirectionAction(dir))

	case "pause":
		c.sess.SetPaused(cmd.Paused)

	case "restart":
		c.sess.Dispatch(game.RestartAction())

	case "new_game":
		go c.newGame()

	default:
		c.notify("unknown command type " + cmd.Type)
	}
}

// newGame fetches the next year and swaps it in. It runs off the read loop.
func (c *client) newGame() {
	ctx, cancel := context.WithTimeout(c.ctx, newGameTimeout)
	defer cancel()

	grid, err := c.srv.loadGrid(ctx, c.source, c.dataset)
	if err != nil {
		if c.ctx.Err() == nil {
			c.notify("cannot load a new year: " + err.Error())
		}
		return
	}
	c.sess.Dispatch(game.NewGameAction(grid))
}

// notify queues an error for the browser, dropping it if the queue is full.
func (c *client) notify(msg string) {
	select {
	case c.notices <- Message{Type: "error", Error: msg}:
	default:
	}
}

// writePump is the only writer on the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		var msg Message
		select {
		case snap := <-c.sess.Updates():
			msg = Message{Type: "snapshot", Snapshot: &snap}

		case msg = <-c.notices:

		case <-ticker.C:
			//nolint:errcheck // a failed ping shows up as a failed write below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue

		case <-c.sess.Done():
			//nolint:errcheck // best-effort close frame
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		//nolint:errcheck // a failed deadline shows up as a failed write
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
