package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/pkg/protocol"
	"github.com/vango-dev/alerts/pkg/vdom"
)

// handleSSE streams patches as datastar element patches. The stream opens
// by replacing the body content with the current document, so it needs no
// resume position.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	sub := s.hub.Subscribe(config.TransportSSE)
	defer sub.Close()
	logger := s.logger.With("stream", sub.ID, "transport", sub.Transport)

	body, version := s.doc.SnapshotVersion()
	children, err := s.renderChildren(body)
	if err != nil {
		logger.Error("snapshot render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(children,
		datastar.WithSelector("body"),
		datastar.WithMode(datastar.ElementPatchModeInner),
	); err != nil {
		logger.Debug("stream write failed", "error", err)
		return
	}
	s.metrics.FrameSent(sub.Transport)
	logger.Debug("stream opened", "version", version)

	ctx := r.Context()
	for {
		select {
		case u := <-sub.Updates():
			if u.Seq <= version {
				continue
			}
			if err := s.patchSSE(sse, u); err != nil {
				logger.Debug("stream write failed", "seq", u.Seq, "error", err)
				return
			}
			s.metrics.FrameSent(sub.Transport)

		case <-sub.Done():
			if sub.Dropped() {
				// The browser reconnects and receives a fresh snapshot.
				logger.Debug("stream dropped")
			}
			return

		case <-ctx.Done():
			logger.Debug("stream closed by client")
			return
		}
	}
}

// patchSSE translates one update into a datastar event.
func (s *Server) patchSSE(sse *datastar.ServerSentEventGenerator, u Update) error {
	op, err := protocol.FromPatch(u.Patch, u.HTML)
	if err != nil {
		return err
	}
	switch op.Kind {
	case protocol.OpInsert:
		return sse.PatchElements(op.HTML,
			datastar.WithSelector(hidSelector(op.Parent)),
			datastar.WithMode(datastar.ElementPatchModeAppend),
		)
	case protocol.OpAttr:
		return sse.PatchElements(u.HTML,
			datastar.WithSelector(hidSelector(op.HID)),
			datastar.WithMode(datastar.ElementPatchModeOuter),
		)
	default:
		return sse.PatchElements("",
			datastar.WithSelector(hidSelector(op.HID)),
			datastar.WithMode(datastar.ElementPatchModeRemove),
		)
	}
}

// renderChildren renders the children of node, in order.
func (s *Server) renderChildren(node *vdom.VNode) (string, error) {
	var b strings.Builder
	for _, child := range node.Children {
		if err := s.renderer.RenderToWriter(&b, child); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// hidSelector returns the CSS selector of a node.
func hidSelector(hid string) string {
	return "[data-hid=" + strconv.Quote(hid) + "]"
}
