package live

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"freshmart/models"
	"freshmart/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// pageMessage carries one page of a client's filtered mirror. A fresh one is
// pushed whenever the collection changes or the client adjusts its filters.
type pageMessage struct {
	Type       string             `json:"type"` // "page"
	Collection string             `json:"collection"`
	Records    interface{}        `json:"records"`
	Page       int                `json:"page"`
	PageCount  int                `json:"page_count"`
	Total      int                `json:"total"`
	Stats      *models.OrderStats `json:"stats,omitempty"`
}

// arrivalMessage tells the dashboard that records arrived since its mirror
// was first populated.
type arrivalMessage struct {
	Type       string `json:"type"` // "new_arrivals"
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// controlMessage is what dashboard clients send to steer their view.
type controlMessage struct {
	Type      string `json:"type"` // search | status | date_range | page
	Search    string `json:"search,omitempty"`
	Status    string `json:"status,omitempty"`
	DateRange string `json:"date_range,omitempty"`
	Page      int    `json:"page,omitempty"`
}

// client is one dashboard connection with its own filtered mirror. Filters
// and pagination live client-side here, so two open dashboards never disturb
// each other's view of the same collection.
type client[T any] struct {
	conn       *websocket.Conn
	collection string
	view       *View[T]
	stats      func() *models.OrderStats

	writeMu sync.Mutex
	dead    func()
}

func (c *client[T]) write(v interface{}) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		log.Printf("websocket push failed, dropping client: %v", err)
		c.conn.Close()
	}
}

func (c *client[T]) sendPage() {
	msg := pageMessage{
		Type:       "page",
		Collection: c.collection,
		Records:    c.view.PageRecords(),
		Page:       c.view.Page(),
		PageCount:  c.view.PageCount(),
		Total:      c.view.Len(),
	}
	if c.stats != nil {
		msg.Stats = c.stats()
	}
	c.write(msg)
}

func (c *client[T]) setRecords(records []T) {
	c.view.SetRecords(records)
	c.sendPage()
}

// readLoop applies the client's filter commands until it disconnects.
func (c *client[T]) readLoop() {
	defer func() {
		c.conn.Close()
		c.dead()
	}()
	for {
		var msg controlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "search":
			c.view.SetSearch(msg.Search)
		case "status":
			c.view.SetStatus(msg.Status)
		case "date_range":
			c.view.SetDateRange(DateRange(msg.DateRange))
		case "page":
			c.view.SetPage(msg.Page)
		default:
			continue
		}
		c.sendPage()
	}
}

// Gateway fans live collection snapshots out to admin dashboard clients.
// However many dashboards are open, the gateway holds at most one change
// stream per collection; rebinding (Start after Stop) disposes the previous
// subscriptions first.
type Gateway struct {
	store *store.Store

	mu           sync.Mutex
	cancel       context.CancelFunc
	orderClients map[*client[models.Order]]struct{}
	userClients  map[*client[models.User]]struct{}

	latestOrders []models.Order
	latestUsers  []models.User
	haveOrders   bool
	haveUsers    bool
}

// NewGateway creates a gateway over st.
func NewGateway(st *store.Store) *Gateway {
	return &Gateway{
		store:        st,
		orderClients: make(map[*client[models.Order]]struct{}),
		userClients:  make(map[*client[models.User]]struct{}),
	}
}

// Start opens the per-collection subscriptions and begins pushing snapshots.
func (g *Gateway) Start(ctx context.Context) {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	ctx, g.cancel = context.WithCancel(ctx)
	g.mu.Unlock()

	orders := g.store.WatchOrders(ctx)
	users := g.store.WatchUsers(ctx)

	go func() {
		for snapshot := range orders {
			g.mu.Lock()
			g.latestOrders = snapshot
			g.haveOrders = true
			clients := make([]*client[models.Order], 0, len(g.orderClients))
			for c := range g.orderClients {
				clients = append(clients, c)
			}
			g.mu.Unlock()
			for _, c := range clients {
				c.setRecords(snapshot)
			}
		}
	}()
	go func() {
		for snapshot := range users {
			g.mu.Lock()
			g.latestUsers = snapshot
			g.haveUsers = true
			clients := make([]*client[models.User], 0, len(g.userClients))
			for c := range g.userClients {
				clients = append(clients, c)
			}
			g.mu.Unlock()
			for _, c := range clients {
				c.setRecords(snapshot)
			}
		}
	}()
}

// Stop releases the change streams. Connected clients stop receiving pushes
// but keep their sockets until they disconnect.
func (g *Gateway) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func (g *Gateway) orderStats() *models.OrderStats {
	g.mu.Lock()
	orders, have := g.latestOrders, g.haveOrders
	g.mu.Unlock()
	if !have {
		return nil
	}
	stats := models.ComputeOrderStats(orders, time.Now())
	return &stats
}

// ServeOrders handles GET /ws/admin/orders. The latest snapshot is delivered
// on connect; afterwards every order change pushes a fresh page, and the
// client steers search, status, date range and page over the same socket.
func (g *Gateway) ServeOrders(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client[models.Order]{conn: conn, collection: "orders", stats: g.orderStats}
	c.view = NewView(Config[models.Order]{
		ID: func(o models.Order) string { return o.ID.Hex() },
		SearchFields: func(o models.Order) []string {
			return []string{o.OrderNumber, o.Address.Name, o.Address.Phone}
		},
		Status:    func(o models.Order) string { return string(o.Status) },
		CreatedAt: func(o models.Order) time.Time { return o.CreatedAt },
		OnNewArrivals: func(count int) {
			c.write(arrivalMessage{Type: "new_arrivals", Collection: "orders", Count: count})
		},
	})
	c.dead = func() {
		g.mu.Lock()
		delete(g.orderClients, c)
		g.mu.Unlock()
	}

	g.mu.Lock()
	g.orderClients[c] = struct{}{}
	snapshot, have := g.latestOrders, g.haveOrders
	g.mu.Unlock()

	if have {
		c.setRecords(snapshot)
	}
	c.readLoop()
}

// ServeUsers handles GET /ws/admin/users.
func (g *Gateway) ServeUsers(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client[models.User]{conn: conn, collection: "users"}
	c.view = NewView(Config[models.User]{
		ID: func(u models.User) string { return u.ID.Hex() },
		SearchFields: func(u models.User) []string {
			return []string{u.Name, u.Email, u.Phone}
		},
		Status:    func(u models.User) string { return string(u.Status) },
		CreatedAt: func(u models.User) time.Time { return u.CreatedAt },
		OnNewArrivals: func(count int) {
			c.write(arrivalMessage{Type: "new_arrivals", Collection: "users", Count: count})
		},
	})
	c.dead = func() {
		g.mu.Lock()
		delete(g.userClients, c)
		g.mu.Unlock()
	}

	g.mu.Lock()
	g.userClients[c] = struct{}{}
	snapshot, have := g.latestUsers, g.haveUsers
	g.mu.Unlock()

	if have {
		c.setRecords(snapshot)
	}
	c.readLoop()
}
