package rest

import "net/http"

func (s *Server) HandleStartPolling(w http.ResponseWriter, r *http.Request) {
	s.engine.StartPolling()
	respondOK(w, map[string]any{"polling": true})
}

func (s *Server) HandleStopPolling(w http.ResponseWriter, r *http.Request) {
	s.engine.StopPolling()
	respondOK(w, map[string]any{"polling": false})
}

func (s *Server) HandlePollingStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{"polling": s.engine.PollingActive()})
}
