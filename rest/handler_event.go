package rest

import (
	"encoding/json"
	"net/http"

	"github.com/botweave/botweave/model"
)

func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event model.AutomationEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid event")
		return
	}
	defer r.Body.Close()
	if event.SubscriberId == "" {
		respondWithError(w, http.StatusBadRequest, "subscriberId is required")
		return
	}
	s.engine.TriggerEvent(event)
	respondOKWithoutBody(w)
}
