package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ridgeline/pkg/buildinfo"
	"github.com/matzehuels/ridgeline/pkg/contact"
	"github.com/matzehuels/ridgeline/pkg/content"
	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/nav"
	"github.com/matzehuels/ridgeline/pkg/pipeline"
)

// maxContactBody bounds POST /api/contact bodies.
const maxContactBody = 64 << 10

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeNetwork || code == errors.ErrCodeDeliveryFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("handler failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	if after, ok := errors.RetryAfter(err); ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(after.Round(time.Second)/time.Second)))
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": info.Version, "commit": info.Commit})
}

func (s *Server) handleContentAll(w http.ResponseWriter, r *http.Request) {
	out := make(map[content.Category][]content.Record)
	for _, c := range s.store.Categories() {
		recs, err := s.store.List(r.Context(), c)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out[c] = recs
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	c, err := content.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := s.store.List(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []content.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

type navSection struct {
	nav.Section
	Anchor string   `json:"anchor"`
	Target *float64 `json:"target,omitempty"`
}

type navResponse struct {
	Active   string       `json:"active"`
	Sections []navSection `json:"sections"`
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	y, err := floatParam(q.Get("y"), 0)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad y"))
		return
	}
	vh, err := floatParam(q.Get("vh"), 0)
	if err != nil || vh <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "vh must be a positive number"))
		return
	}

	resp := navResponse{Active: s.tracker.Current(y, vh)}
	for _, sec := range nav.Sections {
		ns := navSection{Section: sec, Anchor: nav.Anchor(sec.ID)}
		if t, err := s.tracker.Target(sec.ID); err == nil {
			ns.Target = &t
		}
		resp.Sections = append(resp.Sections, ns)
	}
	writeJSON(w, http.StatusOK, resp)
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if s.sender == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "contact form is not configured"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	var msg contact.Message
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed JSON body"))
			return
		}
	default:
		if err := r.ParseMultipartForm(maxContactBody); err != nil && err != http.ErrNotMultipart {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed form body"))
			return
		}
		msg = contact.Message{
			Name:  r.FormValue("user_name"),
			Email: r.FormValue("user_email"),
			Body:  r.FormValue("message"),
		}
	}

	receipt, err := s.sender.Send(r.Context(), msg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleBackdrop(w http.ResponseWriter, r *http.Request) {
	opts := s.renderDefaults.Clone()
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	q := r.URL.Query()
	var err error
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer"))
			return
		}
	}
	for name, dst := range map[string]*int{"w": &opts.Width, "h": &opts.Height, "frames": &opts.Frames} {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.Atoi(v); err != nil {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer", name))
				return
			}
		}
	}
	if v := q.Get("preset"); v != "" {
		opts.Preset = v
	}
	if v := q.Get("noise"); v != "" {
		opts.Noise = v
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Render(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if result.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(result.Artifacts[format])
}
