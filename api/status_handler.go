package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type statusHandler struct {
	responder   Responder
	startupTime time.Time
}

func newStatusHandler(startupTime time.Time) statusHandler {
	logger := log.With().Str("handlerName", "statusHandler").Logger()

	return statusHandler{
		responder:   NewResponder(logger),
		startupTime: startupTime,
	}
}

// status reports liveness and how long the process has been running
func (h statusHandler) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
