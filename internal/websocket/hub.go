package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub owns the set of live sockets and the subscription table mapping chat
// channels to the clients viewing them. Events for a channel reach only its
// subscribers; a client that never joins a channel receives nothing.
type Hub struct {
	channels      map[string]map[*Client]struct{}
	subscriptions map[*Client]map[string]struct{}
	clients       map[*Client]struct{}
	mu            sync.RWMutex

	stats   HubStats
	statsMu sync.RWMutex
}

type HubStats struct {
	TotalChannels    int       `json:"total_channels"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub() *Hub {
	return &Hub{
		channels:      make(map[string]map[*Client]struct{}),
		subscriptions: make(map[*Client]map[string]struct{}),
		clients:       make(map[*Client]struct{}),
		stats: HubStats{
			LastReset: time.Now(),
		},
	}
}

// Add tracks a freshly upgraded connection.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	log.Info().Str("clientID", client.ID).Msg("ws: client connected")
}

// Subscribe adds a client to a channel's delivery set.
func (h *Hub) Subscribe(channelID string, client *Client) {
	h.mu.Lock()
	if h.channels[channelID] == nil {
		h.channels[channelID] = make(map[*Client]struct{})
	}
	h.channels[channelID][client] = struct{}{}

	if h.subscriptions[client] == nil {
		h.subscriptions[client] = make(map[string]struct{})
	}
	h.subscriptions[client][channelID] = struct{}{}
	size := len(h.channels[channelID])
	h.mu.Unlock()

	log.Info().Str("channelID", channelID).Str("clientID", client.ID).Int("subscribers", size).Msg("ws: client joined channel")
}

// Unsubscribe removes a client from one channel.
func (h *Hub) Unsubscribe(channelID string, client *Client) {
	h.mu.Lock()
	if clients, ok := h.channels[channelID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channelID)
		}
	}
	if channels, ok := h.subscriptions[client]; ok {
		delete(channels, channelID)
	}
	h.mu.Unlock()

	log.Info().Str("channelID", channelID).Str("clientID", client.ID).Msg("ws: client left channel")
}

// RemoveClient drops a disconnected client from every channel it joined.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	for channelID := range h.subscriptions[client] {
		if clients, ok := h.channels[channelID]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channelID)
			}
		}
	}
	delete(h.subscriptions, client)
	delete(h.clients, client)
	h.mu.Unlock()

	log.Info().Str("clientID", client.ID).Msg("ws: client disconnected")
}

// BroadcastToChannel delivers an event to every active subscriber of a
// channel. Slow consumers with a full buffer are dropped rather than
// allowed to stall the rest.
func (h *Hub) BroadcastToChannel(channelID string, event OutgoingEvent) {
	event.ChannelID = channelID
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("channelID", channelID).Msg("ws: failed to marshal broadcast event")
		return
	}

	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.channels[channelID]; ok {
		targets = make([]*Client, 0, len(clients))
		for client := range clients {
			if client.IsActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 50) // limit concurrent sends

	for _, client := range targets {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() {
				<-semaphore
			}()
			select {
			case c.Send <- data:
			case <-c.ctx.Done():
			default:
				log.Warn().Str("channelID", channelID).Str("clientID", c.ID).Msg("ws: slow consumer, dropping connection")
				go c.Close()
			}
		}(client)
	}

	wg.Wait()

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})

	log.Debug().Str("channelID", channelID).Int("targets", len(targets)).Str("eventType", event.Type).Msg("ws: broadcast completed")
}

// SubscriberCount reports how many clients are joined to a channel.
func (h *Hub) SubscriberCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channelID])
}

// ClientCount reports how many sockets are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ChannelStats(channelID string) map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]any{
		"channel_id": channelID,
		"exists":     false,
	}

	if clients, ok := h.channels[channelID]; ok {
		active := 0
		for client := range clients {
			if client.IsActive() {
				active++
			}
		}
		stats["exists"] = true
		stats["total_subscribers"] = len(clients)
		stats["active_subscribers"] = active
	}

	return stats
}

func (h *Hub) GetHubStats() HubStats {
	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	h.mu.RLock()
	stats.TotalChannels = len(h.channels)
	stats.TotalClients = len(h.clients)
	h.mu.RUnlock()

	return stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

// Close shuts every connection down.
func (h *Hub) Close() {
	h.mu.RLock()
	allClients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		allClients = append(allClients, client)
	}
	h.mu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
