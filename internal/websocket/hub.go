package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Chunks buffered between the connection and the collector.
	chunkBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Requests reach the upgrade only with a valid bearer token.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Transcriber routes an audio stream to the provider of a config entry
type Transcriber interface {
	Check(entryID string, metadata entities.SpeechMetadata) (repositories.SpeechToText, error)
	Process(ctx context.Context, entryID string, metadata entities.SpeechMetadata, stream <-chan []byte) (entities.SpeechResult, error)
}

// Hub maintains the set of active clients.
type Hub struct {
	// Registered clients, keyed by connection ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	transcriber Transcriber
	validator   *MessageValidator

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(transcriber Transcriber, logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		transcriber: transcriber,
		validator:   NewMessageValidator(),
		logger:      logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Client registered",
				zap.String("connectionID", client.id),
				zap.String("clientID", client.clientID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("connectionID", client.id))

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.closeSend()
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// listeningSession is one open audio stream of a client
type listeningSession struct {
	id         string
	entryID    string
	chunks     chan []byte
	chunkCount int
	started    time.Time
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// Connection ID, unique per socket.
	id string

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send     chan WriteData
	sendMu   sync.Mutex
	sendDone bool

	// Client ID from the access token
	clientID string

	logger *zap.Logger

	// ctx is cancelled when the connection goes away; pending
	// transcriptions stop with it.
	ctx    context.Context
	cancel context.CancelFunc

	mutex   sync.Mutex
	session *listeningSession
}

// HandleWebSocket upgrades the request and serves an authenticated client
func HandleWebSocket(hub *Hub, c echo.Context, clientID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:      hub,
		id:       uuid.New().String(),
		conn:     conn,
		send:     make(chan WriteData, 256),
		clientID: clientID,
		logger:   logger.With(zap.String("clientID", clientID)),
		ctx:      ctx,
		cancel:   cancel,
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		cancel()
		conn.Close()
		return errors.New("websocket hub is stopped")
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.endSession("")
		c.cancel()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
			c.closeSend()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues a text message. Messages for a closed connection are dropped.
func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendDone {
		return
	}

	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		c.logger.Warn("Send buffer full, dropping message")
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendDone {
		c.sendDone = true
		close(c.send)
	}
}

func (c *Client) sendError(code, message, details string) {
	c.sendJSON(CreateErrorMessage(code, message, details))
}

// processMessage processes incoming text messages from the client
func (c *Client) processMessage(message []byte) {
	msg, err := c.hub.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Invalid message", zap.Error(err))
		c.sendError(ErrorCodeInvalidMessage, "Invalid message", err.Error())
		return
	}

	switch m := msg.(type) {
	case *ListeningStartMessage:
		c.handleListeningStart(m)
	case *ListeningEndMessage:
		c.handleListeningEnd(m)
	case *PingMessage:
		c.sendJSON(CreatePongMessage(m.Data))
	}
}

// processBinaryAudioChunk forwards binary audio data to the open stream
func (c *Client) processBinaryAudioChunk(data []byte) {
	c.mutex.Lock()
	session := c.session
	if session != nil {
		session.chunkCount++
	}
	c.mutex.Unlock()

	if session == nil {
		c.logger.Warn("Received binary audio chunk but no active session found")
		c.sendError(ErrorCodeNoActiveSession, "No active listening session", "")
		return
	}

	c.logger.Debug("Received binary audio chunk",
		zap.String("sessionID", session.id),
		zap.Int("size", len(data)))

	// The collector drains the channel until it is closed, so this only
	// blocks while it catches up. Only readPump sends and closes.
	session.chunks <- data
}

// handleListeningStart opens an audio stream and starts its transcription
func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session != nil {
		c.sendError(ErrorCodeSessionActive, "A listening session is already active", c.session.id)
		return
	}

	if _, err := c.hub.transcriber.Check(msg.EntryID, msg.Metadata); err != nil {
		c.logger.Warn("Listening start rejected",
			zap.String("entryID", msg.EntryID),
			zap.Error(err))
		switch {
		case errors.Is(err, domain.ErrEntryNotFound):
			c.sendError(ErrorCodeEntryNotFound, "Config entry not found", msg.EntryID)
		case errors.Is(err, domain.ErrUnsupportedMetadata):
			c.sendError(ErrorCodeUnsupportedMetadata, "Unsupported audio metadata", err.Error())
		default:
			c.sendError(ErrorCodeInternal, "Failed to start listening", "")
		}
		return
	}

	session := &listeningSession{
		id:      uuid.New().String(),
		entryID: msg.EntryID,
		chunks:  make(chan []byte, chunkBufferSize),
		started: time.Now(),
	}
	c.session = session

	go c.transcribe(session, msg.Metadata)

	c.logger.Info("Audio session started",
		zap.String("sessionID", session.id),
		zap.String("entryID", session.entryID))

	c.sendJSON(CreateListeningStartedMessage(session.id))
}

// handleListeningEnd closes the open audio stream; the result follows once
// the provider answers. A session ID, when given, must name the open session.
func (c *Client) handleListeningEnd(msg *ListeningEndMessage) {
	if !c.endSession(msg.SessionID) {
		c.sendError(ErrorCodeNoActiveSession, "No active listening session", msg.SessionID)
	}
}

// endSession closes the chunk stream of the open session, if any. An empty
// sessionID matches whichever session is open.
func (c *Client) endSession(sessionID string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		return false
	}
	if sessionID != "" && sessionID != c.session.id {
		return false
	}

	close(c.session.chunks)
	c.logger.Info("Audio session ended",
		zap.String("sessionID", c.session.id),
		zap.Int("chunkCount", c.session.chunkCount))
	c.session = nil
	return true
}

func (c *Client) transcribe(session *listeningSession, metadata entities.SpeechMetadata) {
	result, err := c.hub.transcriber.Process(c.ctx, session.entryID, metadata, session.chunks)
	if err != nil {
		c.logger.Error("Transcription request failed",
			zap.String("sessionID", session.id),
			zap.Error(err))
		result = entities.ErrorResult()
	}

	c.mutex.Lock()
	chunkCount := session.chunkCount
	c.mutex.Unlock()

	c.logger.Info("Transcription completed",
		zap.String("sessionID", session.id),
		zap.String("result", string(result.Result)))

	c.sendJSON(CreateTranscriptionMessage(session.id, result, chunkCount, time.Since(session.started)))
}
