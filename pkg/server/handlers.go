package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/pipeline"
	"github.com/matzehuels/advancecard/pkg/settings"
	"github.com/matzehuels/advancecard/pkg/store"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// cardDocument is the wire form of a card. Settings are decoded on top of
// the defaults, so partial documents are accepted.
type cardDocument struct {
	ID       string          `json:"id,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Data     json.RawMessage `json:"data"`
	Width    float64         `json:"width,omitempty"`
	Height   float64         `json:"height,omitempty"`
	Titles   bool            `json:"titles,omitempty"`
}

func (d cardDocument) definition() (*store.Definition, error) {
	s := settings.Defaults()
	s.Normalize()
	if len(d.Settings) > 0 {
		var err error
		if s, err = settings.Decode(bytes.NewReader(d.Settings), settings.EncodingJSON); err != nil {
			return nil, err
		}
	}
	if len(d.Data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data is required")
	}
	t, err := data.ReadJSON(bytes.NewReader(d.Data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "invalid data: %v", err)
	}
	return &store.Definition{ID: d.ID, Settings: s, Table: t, Width: d.Width, Height: d.Height}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var doc cardDocument
	if err := decodeBody(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	def, err := doc.definition()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, def, doc.Titles)
}

func (s *Server) handleRenderCard(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	for _, dim := range []struct {
		name string
		dst  *float64
	}{{"width", &def.Width}, {"height", &def.Height}} {
		if v := q.Get(dim.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidViewport, "invalid %s %q", dim.name, v))
				return
			}
			*dim.dst = f
		}
	}
	titles, _ := strconv.ParseBool(q.Get("titles"))
	s.render(w, r, def, titles)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, def *store.Definition, titles bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Settings: def.Settings,
		Table:    def.Table,
		Width:    def.Width,
		Height:   def.Height,
		Formats:  []string{format},
		Titles:   titles,
		Logger:   s.logger.With("request", RequestIDFrom(r.Context())),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("ETag", strconv.Quote(res.CardHash[:16]+"-"+format))
	h.Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	if n := res.Stats.Diagnostics; n > 0 {
		h.Set("X-Card-Diagnostics", strconv.Itoa(n))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	defs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var doc cardDocument
	if err := decodeBody(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	s.putCard(w, r, doc, http.StatusCreated)
}

func (s *Server) handlePutCard(w http.ResponseWriter, r *http.Request) {
	var doc cardDocument
	if err := decodeBody(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if doc.ID != "" && doc.ID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "body id %q does not match path id %q", doc.ID, id))
		return
	}
	doc.ID = id
	s.putCard(w, r, doc, http.StatusOK)
}

func (s *Server) putCard(w http.ResponseWriter, r *http.Request, doc cardDocument, status int) {
	def, err := doc.definition()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), def); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := def.Settings.Validate(); err != nil {
		s.logger.Warn("stored card has settings problems", "id", def.ID, "err", err)
	}
	writeJSON(w, status, def)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	def, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSettings enumerates a group for the defaults, or for a stored card
// named by the card query parameter.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	st := settings.Defaults()
	st.Normalize()
	if id := r.URL.Query().Get("card"); id != "" {
		def, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		st = def.Settings
	}

	group := chi.URLParam(r, "group")
	instances := settings.Enumerate(st, group)
	if instances == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "unknown settings group %q", group))
		return
	}
	writeJSON(w, http.StatusOK, instances)
}
