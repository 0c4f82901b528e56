package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/event"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/sse"
)

// DashboardController serves the stats snapshot and its live SSE feed.
// It registers its event listeners once and fans wake-ups out to every
// open stream.
type DashboardController struct {
	dashboard *services.DashboardService

	mu      sync.Mutex
	clients map[chan struct{}]struct{}
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	c := &DashboardController{
		dashboard: dashboard,
		clients:   make(map[chan struct{}]struct{}),
	}

	notify := func(interface{}) { c.broadcast() }
	event.Listen(services.EventQuoteApproved, notify)
	event.Listen(services.EventQuoteStatusChanged, notify)
	event.Listen(services.EventStockReserved, notify)
	event.Listen(services.EventStockReleased, notify)

	return c
}

// Stats returns the current dashboard snapshot.
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, stats)
}

// Stream pushes a fresh snapshot whenever a quote or stock event fires,
// with a heartbeat comment every 30 seconds so proxies keep the
// connection open.
func (c *DashboardController) Stream(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	wake := c.subscribe()
	defer c.unsubscribe(wake)

	c.push(stream)

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-wake:
			c.push(stream)
		case <-heartbeat.C:
			stream.Comment("keepalive")
		}
		if stream.IsClosed() {
			return
		}
	}
}

func (c *DashboardController) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.clients[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

func (c *DashboardController) unsubscribe(ch chan struct{}) {
	c.mu.Lock()
	delete(c.clients, ch)
	c.mu.Unlock()
}

// broadcast nudges each client; a client already due for a refresh is
// skipped rather than blocked on.
func (c *DashboardController) broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (c *DashboardController) push(stream *sse.Stream) {
	stats, err := c.dashboard.Stats()
	if err != nil {
		return
	}
	stream.Send("stats", stats)
}
