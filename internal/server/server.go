// Package server is the local development server: it accepts building
// specs over HTTP and returns generated models. The production API layer
// is a separate collaborator; this exists for interactive iteration on
// spec files.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/buildsim/buildgen/pkg/building"
	"github.com/buildsim/buildgen/pkg/spec"
	"github.com/buildsim/buildgen/pkg/validation"
)

// Server is the local development server.
type Server struct {
	port int
	log  *zap.Logger
	gen  *building.Generator
}

// New creates a server listening on the given port.
func New(port int) (*Server, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &Server{
		port: port,
		log:  log,
		gen:  building.New(log),
	}, nil
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/api/validate", s.handleValidate)
	r.Post("/api/generate", s.handleGenerate)

	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("buildgen dev server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	bs, ok := decodeSpec(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, validation.ValidateSpec(bs))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	bs, ok := decodeSpec(w, r)
	if !ok {
		return
	}

	model, err := s.gen.Generate(bs)
	status := http.StatusOK
	if err != nil {
		s.log.Warn("generation rejected", zap.String("building", bs.Name), zap.Error(err))
		status = http.StatusUnprocessableEntity
	}

	resp := map[string]any{"error": errString(err)}
	if model != nil {
		resp["phase"] = model.Phase
		resp["geometry"] = model.Geometry
		resp["air_loops"] = model.Loops
		resp["validation"] = model.Report
	}
	writeJSON(w, status, resp)
}

func decodeSpec(w http.ResponseWriter, r *http.Request) (*spec.BuildingSpec, bool) {
	var bs spec.BuildingSpec
	if err := json.NewDecoder(r.Body).Decode(&bs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid spec body: " + err.Error()})
		return nil, false
	}
	bs.Normalize()
	return &bs, true
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
