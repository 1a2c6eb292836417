package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const msgTypeAuth = "AUTH"

// inboundMessage is what clients send us. Only AUTH matters to the pipeline;
// everything else is dropped.
type inboundMessage struct {
	Type         string `json:"type"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
	RestaurantID string `json:"restaurantId"`
}

// Server is the WebSocket gateway: it upgrades client connections, handles
// the AUTH handshake, and keeps the registry current as sockets come and go.
type Server struct {
	registry  *Registry
	upgrader  websocket.Upgrader
	server    *http.Server
	queueSize int
	logger    *zap.Logger
}

func NewServer(registry *Registry, queueSize int, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the app origin; access control
			// is handled upstream.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		queueSize: queueSize,
		logger:    logger,
	}
}

// Handler exposes the gateway routes: the upgrade endpoint and metrics.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handleWS)
	router.Handle("/metrics", promhttp.Handler())
	return router
}

func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:        ":" + port,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("gateway shutdown interrupted", zap.Error(err))
		}
	}()

	s.logger.Info("websocket gateway listening", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := NewConn(uuid.NewString(), sock, s.queueSize, s.logger)
	s.logger.Debug("client connected", zap.String("conn_id", conn.ID()))

	defer func() {
		s.registry.Unregister(conn)
		conn.Close()
		s.logger.Debug("client disconnected", zap.String("conn_id", conn.ID()))
	}()

	_ = sock.SetReadDeadline(time.Now().Add(pongTimeout))
	sock.SetPongHandler(func(string) error {
		return sock.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, raw, err := sock.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("unreadable client message",
				zap.String("conn_id", conn.ID()), zap.Error(err))
			continue
		}

		if msg.Type != msgTypeAuth {
			// Not ours to handle.
			continue
		}

		id, ok := identityFrom(msg)
		if !ok {
			s.logger.Warn("AUTH without an id", zap.String("conn_id", conn.ID()),
				zap.String("role", msg.Role))
			continue
		}

		s.registry.Register(id, conn)
		s.logger.Info("client authenticated",
			zap.String("conn_id", conn.ID()), zap.String("client_id", string(id)))
	}
}

// identityFrom derives the registry key from an AUTH message. Role defaults
// to user when omitted.
func identityFrom(msg inboundMessage) (ClientID, bool) {
	if msg.Role == "restaurant" {
		if msg.RestaurantID == "" {
			return "", false
		}
		return RestaurantID(msg.RestaurantID), true
	}
	if msg.UserID == "" {
		return "", false
	}
	return CustomerID(msg.UserID), true
}
