package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans completed-batch events out to websocket subscribers, keyed by
// workspace. With a Redis client it also publishes every event so other
// replicas can forward it to their own subscribers; without one it is a
// purely local broadcaster.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Workspace string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(workspace string) *Client {
	client := &Client{
		Workspace: workspace,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[workspace] == nil {
		h.clients[workspace] = map[*Client]struct{}{}
	}
	h.clients[workspace][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if workspaceClients, ok := h.clients[client.Workspace]; ok {
		delete(workspaceClients, client)
		if len(workspaceClients) == 0 {
			delete(h.clients, client.Workspace)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(workspace string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[workspace]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(workspace), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "motion:*:batches")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		workspace := workspaceFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[workspace]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(workspace string) string {
	return "motion:" + workspace + ":batches"
}

func workspaceFromChannel(ch string) string {
	// motion:{workspace}:batches
	const prefix = "motion:"
	const suffix = ":batches"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
