package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/memorymatch/go/internal/game/events"
	"github.com/mcdev12/memorymatch/go/internal/game/session"
)

// SessionFactory creates the game session backing a new connection. Every
// event the session emits must be handed to emit.
type SessionFactory func(emit events.Emitter) *session.Session

// ConnectionManager owns the WebSocket connections, one game session each
type ConnectionManager struct {
	connections map[uuid.UUID]*Connection
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	sessions SessionFactory

	// Event fan-out. Sessions emit while holding their own lock, so delivery
	// happens on the broadcast loop instead.
	broadcastCh chan *events.Event

	// Publishing has its own queue so a slow bus never holds up socket delivery.
	publishCh chan *events.Event
	publisher EventPublisher
}

// Connection is a single player's WebSocket together with their session
type Connection struct {
	ID      string
	Session *session.Session
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ctx    context.Context
	cancel context.CancelFunc

	startMu     sync.Mutex
	cancelStart context.CancelFunc

	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	BroadcastBuffer int
	PublishBuffer   int
	CheckOrigin     func(r *http.Request) bool
}

// ConnectionStats is reported by /ws/stats
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	SessionsByStatus map[string]int `json:"sessions_by_status"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		BroadcastBuffer: 1000,
		PublishBuffer:   1000,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a connection manager. publisher may be nil.
func NewConnectionManager(config ConnectionConfig, sessions SessionFactory, publisher EventPublisher) *ConnectionManager {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ConnectionManager{
		connections: make(map[uuid.UUID]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		sessions:    sessions,
		broadcastCh: make(chan *events.Event, config.BroadcastBuffer),
		publishCh:   make(chan *events.Event, config.PublishBuffer),
		publisher:   publisher,
	}
}

// Start processes session events until ctx is cancelled
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	go cm.runPublisher(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case event := <-cm.broadcastCh:
			cm.handleBroadcast(event)
			cm.forward(event)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection and starts a fresh session for it
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ctx:         ctx,
		cancel:      cancel,
		ConnectedAt: time.Now(),
	}
	connection.Session = cm.sessions(cm.Emit)

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("session_id", connection.Session.ID().String()).
		Msg("WebSocket connection established")

	connection.sendSnapshot()
	return connection, nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn.Session.ID()] = conn

	log.Debug().
		Str("connection_id", conn.ID).
		Str("session_id", conn.Session.ID().String()).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

// unregisterConnection drops the connection and stops its session. Safe to call more than once.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	current, exists := cm.connections[conn.Session.ID()]
	if !exists || current != conn {
		cm.mu.Unlock()
		return
	}
	delete(cm.connections, conn.Session.ID())
	close(conn.Send)
	cm.mu.Unlock()

	conn.cancel()
	conn.Session.Close()

	log.Info().
		Str("connection_id", conn.ID).
		Str("session_id", conn.Session.ID().String()).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		conns = append(conns, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range conns {
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}
}

// Emit queues a session event for delivery. It never blocks.
func (cm *ConnectionManager) Emit(event *events.Event) {
	select {
	case cm.broadcastCh <- event:
	default:
		log.Warn().
			Str("session_id", event.SessionID).
			Str("event_type", string(event.Type)).
			Msg("broadcast channel full, dropping message")
	}
}

func (cm *ConnectionManager) handleBroadcast(event *events.Event) {
	sessionID, err := uuid.Parse(event.SessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", event.SessionID).Msg("event with invalid session id")
		return
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// Send under the read lock so unregisterConnection cannot close Send mid-write.
	cm.mu.RLock()
	conn, exists := cm.connections[sessionID]
	if !exists {
		cm.mu.RUnlock()
		return
	}
	delivered := true
	select {
	case conn.Send <- eventData:
	default:
		delivered = false
	}
	cm.mu.RUnlock()

	if !delivered {
		log.Warn().
			Str("connection_id", conn.ID).
			Str("session_id", event.SessionID).
			Msg("connection send buffer full, closing connection")
		cm.unregisterConnection(conn)
		conn.Conn.Close()
		return
	}

	log.Debug().
		Str("event_type", string(event.Type)).
		Str("session_id", event.SessionID).
		Msg("event delivered")
}

// forward queues an event for the publisher. It never blocks.
func (cm *ConnectionManager) forward(event *events.Event) {
	if !shouldPublish(event.Type) {
		return
	}
	select {
	case cm.publishCh <- event:
	default:
		log.Warn().
			Str("session_id", event.SessionID).
			Str("event_type", string(event.Type)).
			Msg("publish queue full, dropping event")
	}
}

func (cm *ConnectionManager) runPublisher(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-cm.publishCh:
			if err := cm.publisher.Publish(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_type", string(event.Type)).
					Str("session_id", event.SessionID).
					Msg("failed to publish event")
			}
		}
	}
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalConnections: len(cm.connections),
		SessionsByStatus: make(map[string]int),
	}
	for _, conn := range cm.connections {
		stats.SessionsByStatus[string(conn.Session.Status())]++
	}
	return stats
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump reads client commands until the socket closes
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
