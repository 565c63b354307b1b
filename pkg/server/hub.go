package server

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/alerts/pkg/protocol"
	"github.com/vango-dev/alerts/pkg/render"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// Update is a document patch prepared for streaming.
type Update struct {
	// Seq is the document version after the patch.
	Seq uint64

	// Patch is the document change.
	Patch vdom.Patch

	// HTML is the rendered node for InsertNode and SetAttr patches.
	HTML string

	// Frame is the encoded WebSocket frame, nil if the patch could not be
	// encoded.
	Frame []byte
}

// StreamObserver is notified about stream lifecycle. *middleware.Metrics
// implements it.
type StreamObserver interface {
	StreamOpened(transport string)
	StreamClosed(transport string)
	FrameSent(transport string)
	StreamDropped(transport string)
}

type nopStreams struct{}

func (nopStreams) StreamOpened(string)  {}
func (nopStreams) StreamClosed(string)  {}
func (nopStreams) FrameSent(string)     {}
func (nopStreams) StreamDropped(string) {}

// Subscription is one stream's view of the hub.
type Subscription struct {
	// ID identifies the stream in logs.
	ID string

	// Transport is the stream transport name.
	Transport string

	hub     *Hub
	updates chan Update
	done    chan struct{}
	once    sync.Once
	dropped bool
}

// Updates delivers patches in document order.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Done is closed when the hub ends the subscription, either because the
// stream fell behind or because the hub closed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped reports whether the subscription ended because its buffer was
// full. Only meaningful after Done is closed.
func (s *Subscription) Dropped() bool {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.dropped
}

// Close removes the subscription from the hub. It is safe to call more
// than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// end closes done. The hub lock must be held.
func (s *Subscription) end() {
	s.once.Do(func() { close(s.done) })
}

// Hub fans document patches out to browser streams. Each patch is rendered
// and encoded once. Delivery never blocks the document: a subscriber whose
// buffer is full is dropped.
type Hub struct {
	renderer *render.Renderer
	logger   *slog.Logger
	streams  StreamObserver
	buffer   int
	history  *PatchHistory

	mu     sync.Mutex
	subs   map[string]*Subscription
	last   uint64 // Seq of the last dispatched patch
	closed bool

	unsubscribe func()
}

// HubConfig configures a Hub.
type HubConfig struct {
	// BufferSize is the per-stream queue length. Values below one are
	// raised to one.
	BufferSize int

	// HistorySize is the number of encoded frames kept for replay.
	// Zero uses the PatchHistory default.
	HistorySize int

	Logger  *slog.Logger
	Streams StreamObserver
}

// NewHub subscribes a hub to doc.
func NewHub(doc *vdom.Document, cfg HubConfig) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Streams == nil {
		cfg.Streams = nopStreams{}
	}
	h := &Hub{
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   cfg.Logger,
		streams:  cfg.Streams,
		buffer:   max(cfg.BufferSize, 1),
		history:  NewPatchHistory(cfg.HistorySize),
		subs:     make(map[string]*Subscription),
		last:     doc.Version(),
	}
	h.unsubscribe = doc.Subscribe(h.dispatch)
	return h
}

// Subscribe registers a stream. If the hub is closed the returned
// subscription is already done.
func (h *Hub) Subscribe(transport string) *Subscription {
	sub := h.newSubscription(transport)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.registerLocked(sub)
	return sub
}

// SubscribeFrom registers a WebSocket stream for a client that has applied
// every patch up to since. It returns the encoded frames after since that
// were dispatched before the subscription, oldest first; later patches
// arrive on Updates. ok is false, and nothing is registered, when those
// frames are no longer in the history.
func (h *Hub) SubscribeFrom(transport string, since uint64) (sub *Subscription, replay [][]byte, ok bool) {
	sub = h.newSubscription(transport)

	h.mu.Lock()
	defer h.mu.Unlock()
	if since < h.last {
		if replay = h.history.GetFrames(since, h.last); replay == nil {
			return nil, nil, false
		}
	}
	h.registerLocked(sub)
	return sub, replay, true
}

func (h *Hub) newSubscription(transport string) *Subscription {
	return &Subscription{
		ID:        uuid.NewString(),
		Transport: transport,
		hub:       h,
		updates:   make(chan Update, h.buffer),
		done:      make(chan struct{}),
	}
}

// registerLocked adds sub, or ends it if the hub is closed.
func (h *Hub) registerLocked(sub *Subscription) {
	if h.closed {
		sub.end()
		return
	}
	h.subs[sub.ID] = sub
	h.streams.StreamOpened(sub.Transport)
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close detaches the hub from the document and ends every subscription.
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		sub.end()
		h.streams.StreamClosed(sub.Transport)
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	sub.end()
	h.streams.StreamClosed(sub.Transport)
}

// dispatch runs on the document's emit path and must not block.
func (h *Hub) dispatch(p vdom.Patch) {
	u := Update{Seq: p.Seq, Patch: p}
	if p.Node != nil && (p.Op == vdom.PatchInsertNode || p.Op == vdom.PatchSetAttr) {
		html, err := h.renderer.RenderToString(p.Node)
		if err != nil {
			h.logger.Error("patch render failed", "seq", p.Seq, "hid", p.HID, "error", err)
		}
		u.HTML = html
	}
	// A patch without a frame leaves a gap in the history; WebSocket
	// clients that need it reload.
	if op, err := protocol.FromPatch(p, u.HTML); err != nil {
		h.logger.Error("patch not encodable", "seq", p.Seq, "error", err)
	} else if u.Frame, err = protocol.Encode(protocol.NewPatchFrame(p.Seq, op)); err != nil {
		h.logger.Error("patch not encodable", "seq", p.Seq, "error", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if u.Frame != nil {
		h.history.Add(u.Seq, u.Frame)
	}
	h.last = u.Seq
	for id, sub := range h.subs {
		select {
		case sub.updates <- u:
		default:
			delete(h.subs, id)
			sub.dropped = true
			sub.end()
			h.streams.StreamDropped(sub.Transport)
			h.streams.StreamClosed(sub.Transport)
			h.logger.Warn("stream dropped", "stream", id, "transport", sub.Transport, "seq", u.Seq)
		}
	}
}
