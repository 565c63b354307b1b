package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/alert"
	"github.com/vango-dev/alerts/pkg/render"
)

// maxRequestBytes bounds POST /alerts bodies.
const maxRequestBytes = 64 << 10

// PresentRequest is the body of POST /alerts.
type PresentRequest struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// PresentResponse is returned with 202 Accepted.
type PresentResponse struct {
	Kind string `json:"kind"`
	// Version is a document version that includes the new alert.
	Version uint64 `json:"version"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, seq := s.doc.SnapshotVersion()

	page := render.PageData{
		Body:        body,
		Title:       s.config.Page.Title,
		StyleSheets: s.config.Page.Stylesheets,
		Transport:   s.config.Stream.Transport,
		Seq:         seq,
	}
	for _, src := range s.config.Page.Scripts {
		page.Scripts = append(page.Scripts, render.ScriptTag{Src: src, Defer: true})
	}
	switch s.config.Stream.Transport {
	case config.TransportSSE:
		page.StreamURL = PathSSE
	default:
		page.StreamURL = PathWS
		page.ClientScript = PathClient
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.RenderPage(w, page); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

func (s *Server) handlePresent(w http.ResponseWriter, r *http.Request) {
	req, err := decodePresentRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.presenter.Present(r.Context(), alert.Kind(req.Kind), req.Message)

	writeJSON(w, http.StatusAccepted, PresentResponse{
		Kind:    req.Kind,
		Version: s.doc.Version(),
	})
}

// decodePresentRequest accepts a JSON body or a form. Kind and message are
// passed through unchanged; an empty kind is allowed.
func decodePresentRequest(w http.ResponseWriter, r *http.Request) (PresentRequest, *errors.AlertsError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req PresentRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, errors.New("E303").WithDetail("invalid JSON body").Wrap(err)
		}
	case mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxRequestBytes); err != nil && err != http.ErrNotMultipart {
			return req, errors.New("E303").WithDetail("invalid form body").Wrap(err)
		}
		req.Kind = r.PostForm.Get("kind")
		req.Message = r.PostForm.Get("message")
	default:
		return req, errors.New("E303").
			WithDetail("unsupported content type " + mediaType).
			WithSuggestion("Send application/json or a form")
	}
	return req, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"alerts":  s.doc.Len(),
		"streams": s.hub.Len(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err *errors.AlertsError) {
	s.logger.Debug("request rejected", "status", status, "error", err.FormatPlain())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.FormatJSON()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
