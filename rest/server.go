package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/botweave/botweave/engine"
	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/persistence"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port    int
	storage persistence.Storage
	engine  *engine.Engine
}

func NewServer(httpPort int, storage persistence.Storage, eng *engine.Engine) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		storage: storage,
		engine:  eng,
		Port:    httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/flows", s.HandleCreateFlow).Methods(http.MethodPost)
	router.HandleFunc("/flows", s.HandleListFlows).Methods(http.MethodGet)
	router.HandleFunc("/flows/{id}", s.HandleGetFlow).Methods(http.MethodGet)
	router.HandleFunc("/flows/{id}", s.HandleDeleteFlow).Methods(http.MethodDelete)

	router.HandleFunc("/event", s.HandleEvent).Methods(http.MethodPost)

	router.HandleFunc("/subscribers", s.HandleListSubscribers).Methods(http.MethodGet)
	router.HandleFunc("/logs", s.HandleListLogs).Methods(http.MethodGet)

	router.HandleFunc("/poller/start", s.HandleStartPolling).Methods(http.MethodPost)
	router.HandleFunc("/poller/stop", s.HandleStopPolling).Methods(http.MethodPost)
	router.HandleFunc("/poller/status", s.HandlePollingStatus).Methods(http.MethodGet)

	router.HandleFunc("/live", s.HandleLive).Methods(http.MethodGet)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	res, _ := json.Marshal(message)
	w.Write(res)
}

func respondOKWithoutBody(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
