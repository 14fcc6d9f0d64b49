package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/logger"
)

type SSEClient struct {
	userID   string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan bool
	lastPing time.Time
}

type SSEServer struct {
	mu         sync.RWMutex
	clients    map[string]*SSEClient
	pingTicker *time.Ticker
	stopCh     chan struct{}
}

var globalSSEServer *SSEServer

func NewSSEServer() *SSEServer {
	s := &SSEServer{
		clients: make(map[string]*SSEClient),
		stopCh:  make(chan struct{}),
	}
	globalSSEServer = s

	// Start ping routine to keep connections alive
	s.pingTicker = time.NewTicker(30 * time.Second)
	go s.pingClients()

	return s
}

func GetSSEServer() *SSEServer {
	return globalSSEServer
}

// HandleSSE streams dashboard events to one user. A new connection for
// the same user replaces the previous one.
func (s *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request, userID string) {
	// Set SSE headers
	w.Header().Set(constants.ContentTypeText, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(constants.HeaderAccessControlAllowOrigin, "*")
	w.Header().Set(constants.HeaderAccessControlAllowHeaders, "Cache-Control")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	client := &SSEClient{
		userID:   userID,
		writer:   w,
		flusher:  flusher,
		done:     make(chan bool),
		lastPing: time.Now(),
	}

	s.mu.Lock()
	// Close existing connection for this user if any
	if existingClient, exists := s.clients[userID]; exists {
		close(existingClient.done)
	}
	s.clients[userID] = client
	s.mu.Unlock()

	fmt.Printf("[SSE] Connected user %s from %s\n", userID, r.RemoteAddr)

	// Send initial connection confirmation
	s.sendToClient(client, map[string]interface{}{
		"type":    "connected",
		"message": "SSE connection established",
		"time":    time.Now().Format(time.RFC3339),
	})

	// Keep connection alive until client disconnects or we close it
	defer func() {
		s.mu.Lock()
		if s.clients[userID] == client {
			delete(s.clients, userID)
		}
		s.mu.Unlock()
		fmt.Printf("[SSE] Disconnected user %s\n", userID)
	}()

	// Block until connection is closed
	select {
	case <-client.done:
		return
	case <-r.Context().Done():
		return
	case <-s.stopCh:
		return
	}
}

func (s *SSEServer) sendToClient(client *SSEClient, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(client.writer, "data: %s\n\n", jsonData)
	if err != nil {
		return err
	}

	client.flusher.Flush()
	return nil
}

func (s *SSEServer) pingClients() {
	defer s.pingTicker.Stop()

	for {
		select {
		case <-s.pingTicker.C:
			s.mu.RLock()
			for userID, client := range s.clients {
				err := s.sendToClient(client, map[string]interface{}{
					"type": "ping",
					"time": time.Now().Format(time.RFC3339),
				})
				if err != nil {
					fmt.Printf("[SSE] Ping failed for user %s: %v\n", userID, err)
					// Remove failed client
					go func(uid string, c *SSEClient) {
						s.mu.Lock()
						if s.clients[uid] == c {
							delete(s.clients, uid)
							close(c.done)
						}
						s.mu.Unlock()
					}(userID, client)
				} else {
					client.lastPing = time.Now()
				}
			}
			s.mu.RUnlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SSEServer) Stop() {
	close(s.stopCh)
	s.mu.Lock()
	for _, client := range s.clients {
		close(client.done)
	}
	s.clients = make(map[string]*SSEClient)
	s.mu.Unlock()
}

// Broadcast sends an event to every connected client. Dataset rebuilds
// are announced this way so open dashboards can re-fetch.
func (s *SSEServer) Broadcast(data interface{}) {
	s.mu.RLock()
	clients := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := s.sendToClient(client, data); err != nil {
			fmt.Printf("[SSE] Broadcast failed for user %s: %v\n", client.userID, err)
			s.mu.Lock()
			if s.clients[client.userID] == client {
				delete(s.clients, client.userID)
				close(client.done)
			}
			s.mu.Unlock()
		}
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("SSE broadcast delivered to %d client(s)", len(clients)))
	}
}

// GetClients returns a list of connected user IDs
func GetClients() []string {
	if globalSSEServer == nil {
		return nil
	}

	globalSSEServer.mu.RLock()
	defer globalSSEServer.mu.RUnlock()

	ids := make([]string, 0, len(globalSSEServer.clients))
	for uid := range globalSSEServer.clients {
		ids = append(ids, uid)
	}
	return ids
}

// GetClientCount returns the number of connected clients
func GetClientCount() int {
	if globalSSEServer == nil {
		return 0
	}

	globalSSEServer.mu.RLock()
	defer globalSSEServer.mu.RUnlock()

	return len(globalSSEServer.clients)
}

// CleanupDeadConnections removes clients that haven't responded to pings
func (s *SSEServer) CleanupDeadConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-2 * time.Minute) // 2 minutes timeout
	for userID, client := range s.clients {
		if client.lastPing.Before(cutoff) {
			fmt.Printf("[SSE] Removing dead connection for user %s\n", userID)
			close(client.done)
			delete(s.clients, userID)
		}
	}
}
