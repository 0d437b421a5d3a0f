// Package ws connects the engine to a remote arena server over a websocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/noleforte/DRAW-sub001/internal/net/proto"
	"github.com/noleforte/DRAW-sub001/internal/telemetry"
	"github.com/noleforte/DRAW-sub001/logging"
	loggingnetwork "github.com/noleforte/DRAW-sub001/logging/network"
)

const (
	// reconnectDelay is the fixed single-shot delay armed after every drop.
	// There is no backoff: the server being briefly unreachable is the common
	// case and a flat retry recovers fastest.
	reconnectDelay = 3 * time.Second

	writeWait   = 5 * time.Second
	eventBuffer = 64
)

// Options carries the optional collaborators of a remote transport.
type Options struct {
	Publisher logging.Publisher
	Logger    telemetry.Logger
}

// Remote is a websocket-backed transport. It owns the read pump, serializes
// writes, and redials on a fixed delay after every drop, replaying the last
// join frame so the server re-registers the player.
type Remote struct {
	url    string
	pub    logging.Publisher
	logger telemetry.Logger

	events chan proto.ServerEvent
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	conn     *websocket.Conn
	lastJoin []byte
	closed   bool
}

// Dial connects to the arena server and starts the read pump. The initial
// dial must succeed; later drops are handled by the reconnect loop.
func Dial(ctx context.Context, url string, opts Options) (*Remote, error) {
	if opts.Logger == nil {
		opts.Logger = telemetry.NopLogger()
	}
	if opts.Publisher == nil {
		opts.Publisher = logging.NopPublisher()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &Remote{
		url:    url,
		pub:    opts.Publisher,
		logger: opts.Logger,
		events: make(chan proto.ServerEvent, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
		conn:   conn,
	}
	go r.run(runCtx)
	return r, nil
}

// Events yields decoded server events until the transport closes.
func (r *Remote) Events() <-chan proto.ServerEvent {
	return r.events
}

// Send writes one encoded frame. Join frames are remembered for replay after
// a reconnect. Frames sent while the link is down are dropped.
func (r *Remote) Send(payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("transport closed")
	}
	if isJoinFrame(payload) {
		r.lastJoin = append([]byte(nil), payload...)
	}
	if r.conn == nil {
		return nil
	}
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close tears down the connection and stops the reconnect loop.
func (r *Remote) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	conn := r.conn
	r.mu.Unlock()

	r.cancel()
	if conn != nil {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		conn.Close()
	}
	<-r.done
	return nil
}

// run alternates between pumping the live connection and waiting out the
// reconnect delay.
func (r *Remote) run(ctx context.Context) {
	defer close(r.done)
	defer close(r.events)

	for {
		conn := r.currentConn()
		if conn != nil {
			err := r.readPump(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			loggingnetwork.Disconnected(ctx, r.pub, 0, err.Error())
			r.logger.Printf("connection dropped: %v", err)
			r.setConn(nil)
		}

		loggingnetwork.ReconnectScheduled(ctx, r.pub, 0, reconnectDelay.Milliseconds())
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}

		next, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Printf("redial failed: %v", err)
			continue
		}
		if !r.setConn(next) {
			next.Close()
			return
		}
		r.replayJoin()
	}
}

func (r *Remote) readPump(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		event, err := proto.DecodeServerEvent(payload)
		if err != nil {
			r.logger.Printf("discarding malformed message: %v", err)
			continue
		}
		select {
		case r.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Remote) replayJoin() {
	r.mu.Lock()
	conn, join := r.conn, r.lastJoin
	r.mu.Unlock()
	if conn == nil || join == nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		r.logger.Printf("join replay failed: %v", err)
	}
}

func (r *Remote) currentConn() *websocket.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn
}

// setConn installs the redialed connection, reporting false when the
// transport closed during the dial.
func (r *Remote) setConn(conn *websocket.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.conn = conn
	return true
}

func isJoinFrame(payload []byte) bool {
	var frame struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return false
	}
	return frame.Type == proto.TypeJoinGame
}
