package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	v1 "github.com/openshelf/openshelf/api/v1"
	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/version"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
}

// StartServer wires the router and begins listening. It returns as
// soon as the listener goroutine is running; use Shutdown to stop.
func StartServer(handler *v1.Handler, s *store.Store, hub *realtime.Hub) *Server {
	addr := fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port)
	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      setupHandler(handler, s, hub),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := srv.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	return srv
}

// Shutdown drains in-flight requests before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func setupHandler(handler *v1.Handler, s *store.Store, hub *realtime.Hub) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(); err != nil {
			log.Error("Database connection is dead", zap.Error(err))
			response.ServerError(w, r, err)
			return
		}
		response.OK(w, r, "OK")
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, r, version.GetCurrentVersion())
	}).Name("version")

	// The event feed lives outside /api/v1 so the upgrade request skips
	// the API middleware chain.
	router.HandleFunc("/ws", hub.ServeWS).Name("events")

	v1.Server(router, handler)

	return router
}
