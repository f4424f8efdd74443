package rest

import (
	"net/http"
	"strconv"

	"github.com/botweave/botweave/logger"
	"go.uber.org/zap"
)

func (s *Server) HandleListSubscribers(w http.ResponseWriter, r *http.Request) {
	subscribers, err := s.storage.GetSubscribers()
	if err != nil {
		logger.Error("error listing subscribers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing subscribers")
		return
	}
	respondWithJSON(w, http.StatusOK, subscribers)
}

func (s *Server) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	logs, err := s.storage.GetLogs(limit)
	if err != nil {
		logger.Error("error listing execution logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing logs")
		return
	}
	respondWithJSON(w, http.StatusOK, logs)
}
