// Package transport abstracts where authoritative game events come from. The
// engine only sees the Transport interface; whether events arrive over a
// websocket or from an in-process generator is a wiring decision.
package transport

import (
	"github.com/noleforte/DRAW-sub001/internal/net/proto"
)

// Transport delivers decoded server events and accepts encoded outbound
// frames. Implementations own their connection lifecycle.
type Transport interface {
	// Events yields inbound events until the transport closes. The channel is
	// closed when no further events will arrive.
	Events() <-chan proto.ServerEvent

	// Send writes one encoded frame. Implementations may drop frames when the
	// link is down; the engine treats Send as best effort.
	Send(payload []byte) error

	// Close tears the transport down and releases its resources.
	Close() error
}
