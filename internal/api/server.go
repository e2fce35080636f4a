// Package api exposes the generation and annotation pipeline over HTTP:
// sequence creation from recipes, frame and annotation queries, and bake
// preview pages.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/synthset/internal/config"
	"github.com/banshee-data/synthset/internal/dataset"
	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/preview"
	"github.com/banshee-data/synthset/internal/sequence"
)

// maxRecipeBytes bounds POSTed recipe payloads.
const maxRecipeBytes = 1 << 20

// Server serves the synthset HTTP API.
type Server struct {
	store *dataset.Store
	cfg   *config.Config
	log   *slog.Logger
}

// NewServer builds a server over the given store and tuning config.
func NewServer(store *dataset.Store, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, cfg: cfg, log: log}
}

func (s *Server) intrinsics() frame.Intrinsics {
	return frame.Intrinsics{
		FOVYDeg: s.cfg.GetFOVYDegrees(),
		Width:   s.cfg.GetImageWidth(),
		Height:  s.cfg.GetImageHeight(),
	}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sequences", s.listSequences)
	mux.HandleFunc("POST /api/sequences", s.createSequence)
	mux.HandleFunc("GET /api/sequences/{id}", s.getSequence)
	mux.HandleFunc("GET /api/sequences/{id}/frames", s.getFrames)
	mux.HandleFunc("GET /api/sequences/{id}/preview", s.previewSequence)
	mux.HandleFunc("GET /api/sequences/{id}/annotations", s.getAnnotations)
	mux.HandleFunc("GET /api/config", s.showConfig)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration for every
// request.
func LoggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Info("request",
			"status", lrw.statusCode,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps core error kinds to HTTP statuses: caller mistakes are 400s,
// everything else is a 500.
func statusFor(err error) int {
	if errors.Is(err, faults.ErrConfiguration) || errors.Is(err, faults.ErrGeometry) || errors.Is(err, faults.ErrData) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) listSequences(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListSequences()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []dataset.SequenceRecord{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) createSequence(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRecipeBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	recipe, seq, err := sequence.ParseRecipe(body)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	id, err := s.store.InsertSequence(recipe.Name, recipe.Strategy, seq, body)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("sequence created", "sequence_id", id, "strategy", recipe.Strategy, "frames", seq.Len())
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"sequence_id": id,
		"frame_count": seq.Len(),
	})
}

func (s *Server) getSequence(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetSequenceRecord(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getFrames(w http.ResponseWriter, r *http.Request) {
	seq, err := s.store.GetSequence(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seq)
}

func (s *Server) previewSequence(w http.ResponseWriter, r *http.Request) {
	seq, err := s.store.GetSequence(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	num := s.cfg.GetPreviewFrameCap()
	if q := r.URL.Query().Get("frames"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 5000 {
			num = v
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := preview.PathHTML(seq, s.intrinsics(), num, w); err != nil {
		s.log.Error("render preview", "error", err)
	}
}

func (s *Server) getAnnotations(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.URL.Query().Get("frame"))
	if err != nil || idx < 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("frame query parameter must be a non-negative integer"))
		return
	}
	anns, err := s.store.AnnotationsFor(r.PathValue("id"), idx)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if anns == nil {
		anns = []dataset.Annotation{}
	}
	s.writeJSON(w, http.StatusOK, anns)
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"color_variation_cutoff": s.cfg.GetColorVariationCutoff(),
		"fovy_degrees":           s.cfg.GetFOVYDegrees(),
		"image_width":            s.cfg.GetImageWidth(),
		"image_height":           s.cfg.GetImageHeight(),
		"keypoint_count":         s.cfg.GetKeypointCount(),
		"keypoint_seed":          s.cfg.GetKeypointSeed(),
		"preview_frame_cap":      s.cfg.GetPreviewFrameCap(),
	})
}
