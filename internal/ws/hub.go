package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client é um painel aberto no navegador.
type Client struct {
	ID   string
	Send chan []byte
}

// Hub repassa os eventos do painel (report_rendered, snapshot_seeded)
// para todos os navegadores conectados. Só a goroutine de Run altera clients.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client
	sendAll  chan []byte

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID    atomic.Uint64
	delivered atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		sendAll:  make(chan []byte, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	return fmt.Sprintf("painel-%d", h.nextID.Add(1))
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "total", total)

		case c := <-h.unreg:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.drop(c.ID)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case msg := <-h.sendAll:
			h.fanout(msg)

		case <-h.stop:
			h.mu.Lock()
			for id := range h.clients {
				h.drop(id)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop", "delivered", h.delivered.Load())
			return
		}
	}
}

// fanout entrega msg a cada cliente; quem está com o buffer cheio é
// desconectado para não travar o hub.
func (h *Hub) fanout(msg []byte) {
	var slow []string

	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.Send <- msg:
			h.delivered.Add(1)
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, id := range slow {
		h.drop(id)
	}
	h.mu.Unlock()
	h.log.Warn("slow_clients_dropped", "count", len(slow))
}

// drop exige h.mu travado para escrita.
func (h *Hub) drop(id string) {
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register atribui o id (se vazio) antes de entregar o cliente ao hub.
func (h *Hub) Register(c *Client) {
	if c.ID == "" {
		c.ID = h.newID()
	}
	select {
	case h.register <- c:
	case <-h.stopped:
		close(c.Send)
	}
}

// Unregister depois de Stop não bloqueia: o hub já fechou tudo.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

// Broadcast descarta a mensagem depois de Stop em vez de travar o chamador.
func (h *Hub) Broadcast(b []byte) {
	select {
	case h.sendAll <- b:
	case <-h.stopped:
	}
}

// Clients devolve quantos painéis estão conectados.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
