// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server is soroscope's HTTP and admin JSON-RPC surface: a chi
// router for the REST endpoints, a gorilla/rpc mirror of the admin
// endpoints, bearer-token auth, and request-id tagging.
package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/dotandev/soroscope/internal/analyze"
	"github.com/dotandev/soroscope/internal/cache"
	"github.com/dotandev/soroscope/internal/costmodel"
	"github.com/dotandev/soroscope/internal/logger"
	"github.com/dotandev/soroscope/internal/provider"
)

// Server wires the analyze orchestrator, provider registry, cache and cost
// model registry into an HTTP router plus an admin JSON-RPC service.
type Server struct {
	Orchestrator *analyze.Orchestrator
	Providers    *provider.Registry
	Cache        *cache.Manager
	CostModel    *costmodel.Registry
	AuthToken    string
}

// New builds a Server from its collaborators.
func New(orch *analyze.Orchestrator, providers *provider.Registry, cacheMgr *cache.Manager, costReg *costmodel.Registry, authToken string) *Server {
	return &Server{Orchestrator: orch, Providers: providers, Cache: cacheMgr, CostModel: costReg, AuthToken: authToken}
}

// Router builds the chi router for the inbound HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestUUID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/upload", s.handleUpload)
		r.Get("/providers", s.handleProviders)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Get("/protocols", s.handleProtocols)
		r.Handle("/rpc", s.rpcHandler())
	})

	return r
}

// requestUUID tags every request with an X-Request-Id header using
// google/uuid, independent of chi's own short request-id counter.
func requestUUID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

// authMiddleware enforces the bearer-token check. An empty configured
// token disables authentication entirely.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token != s.AuthToken {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rpcHandler builds the admin JSON-RPC 2.0 service.
func (s *Server) rpcHandler() http.Handler {
	rs := rpc.NewServer()
	rs.RegisterCodec(json2.NewCodec(), "application/json")
	rs.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")
	admin := &adminService{server: s}
	// gorilla/rpc rejects service names derived from unexported receiver
	// types, so the name is given explicitly.
	if err := rs.RegisterService(admin, "adminService"); err != nil {
		logger.Logger.Error("failed to register admin rpc service", "error", err)
	}
	return rs
}
