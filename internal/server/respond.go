package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pizzahunt/internal/api"
	"pizzahunt/internal/catalog"
	"pizzahunt/internal/logging"
)

// maxBodySize caps request bodies; batched offline submissions stay far below it.
const maxBodySize = 4 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.MessageResponse{Message: message})
}

// notFound names the message sent for each missing resource on a route.
type notFound struct {
	pizza   string
	comment string
}

var (
	pizzaRoute         = notFound{pizza: api.MsgPizzaNotFound}
	replyRoute         = notFound{comment: api.MsgCommentNotFound}
	removeCommentRoute = notFound{pizza: api.MsgPizzaNotFound, comment: api.MsgNoComment}
)

// writeStoreError maps catalog errors to HTTP responses.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, messages notFound) {
	switch {
	case errors.Is(err, catalog.ErrPizzaNotFound) && messages.pizza != "":
		writeMessage(w, http.StatusNotFound, messages.pizza)
	case errors.Is(err, catalog.ErrCommentNotFound) && messages.comment != "":
		writeMessage(w, http.StatusNotFound, messages.comment)
	case catalog.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		s.requestLog(r).Error("catalog operation failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_store_error"),
			logging.String(logging.FieldErrorHint, "check the catalog database"),
			logging.String(logging.FieldImpact, "request failed"),
		)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody reads a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) requestLog(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), s.logger)
}
