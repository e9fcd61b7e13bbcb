package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/embermade/grove"
)

const (
	// staleAfter is how old the newest sample may be before the feed
	// reports no hand visible.
	staleAfter = 300 * time.Millisecond

	readLimit = 64 * 1024

	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ErrClosed is returned by Acquire after the feed has been closed.
var ErrClosed = errors.New("feed: closed")

// Feed is a websocket endpoint for browser-side hand detectors and a
// grove.LandmarkSource for the detection loop. Register it on any mux:
//
//	f := feed.New(slog.Default())
//	http.Handle("/landmarks", f)
//
// Only the newest sample is kept. Multiple detector clients may connect;
// whichever pushed most recently wins, which in practice means the one open
// tab.
type Feed struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	latest   *grove.LandmarkFrame
	latestAt time.Time
	closed   bool
}

// New returns a Feed ready to serve. logger may be nil to disable logging.
func New(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// The detector page is served from anywhere during
			// development; landmark data is not sensitive.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler by upgrading the connection and reading
// detector messages until the client disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("feed upgrade failed", "err", err)
		return
	}
	f.log.Info("detector connected", "remote", conn.RemoteAddr().String())
	go f.pingLoop(conn)
	f.readLoop(conn)
}

func (f *Feed) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		f.log.Info("detector disconnected", "remote", conn.RemoteAddr().String())
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := ParseMessage(data)
		if err != nil {
			// A malformed sample is a miss, not a reason to drop the
			// connection.
			f.log.Debug("bad feed message", "err", err)
			continue
		}
		now := time.Now()
		f.mu.Lock()
		switch msg.Type {
		case TypeLandmarks:
			f.latest = msg.Frame(now)
			f.latestAt = now
		case TypeEmpty:
			f.latest = nil
			f.latestAt = now
		}
		f.mu.Unlock()
	}
}

func (f *Feed) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			return
		}
	}
}

// Acquire implements grove.LandmarkSource: it returns the newest fresh frame
// or nil when no hand is visible (no client, explicit empty tick, or a stale
// sample). It never blocks on the network; the browser pushes, the loop
// polls.
func (f *Feed) Acquire(ctx context.Context) (*grove.LandmarkFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	if f.latest == nil || time.Since(f.latestAt) > staleAfter {
		return nil, nil
	}
	return f.latest, nil
}

// Close marks the feed unavailable. Subsequent Acquire calls return
// ErrClosed, which the detection loop surfaces as degraded mode.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.latest = nil
	f.mu.Unlock()
}
