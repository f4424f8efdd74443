package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var flow model.Flow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid flow definition")
		return
	}
	defer r.Body.Close()
	if len(flow.Nodes) == 0 {
		respondWithError(w, http.StatusBadRequest, "flow must have at least one node")
		return
	}
	if flow.Id == "" {
		flow.Id = uuid.NewString()
	}
	if flow.CreatedAt.IsZero() {
		flow.CreatedAt = time.Now()
	}
	if err := s.storage.SaveFlow(flow); err != nil {
		logger.Error("error saving flow", zap.String("name", flow.Name), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "error saving flow")
		return
	}
	respondOK(w, map[string]any{"id": flow.Id})
}

func (s *Server) HandleListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := s.storage.GetFlows()
	if err != nil {
		logger.Error("error listing flows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing flows")
		return
	}
	respondWithJSON(w, http.StatusOK, flows)
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	flow, err := s.storage.GetFlow(id)
	if err != nil {
		logger.Error("error getting flow", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting flow")
		return
	}
	if flow == nil {
		respondWithError(w, http.StatusNotFound, "flow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, flow)
}

func (s *Server) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.storage.DeleteFlow(id); err != nil {
		logger.Error("error deleting flow", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting flow")
		return
	}
	respondOKWithoutBody(w)
}
