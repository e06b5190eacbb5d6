package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pizzahunt/internal/api"
	"pizzahunt/internal/logging"
)

func (s *Server) handleListPizzas(w http.ResponseWriter, r *http.Request) {
	pizzas, err := s.pizzas.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}
	writeJSON(w, http.StatusOK, pizzas)
}

// handleCreatePizzas accepts one object or an array and answers in the same
// shape. Batches are stored all-or-nothing.
func (s *Server) handleCreatePizzas(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	requests, batch, err := api.DecodePizzaRequests(data)
	if err != nil {
		if errors.Is(err, api.ErrEmptyBody) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeMessage(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	created, err := s.pizzas.Create(r.Context(), requests)
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}

	s.requestLog(r).Info("pizzas created",
		logging.String(logging.FieldEventType, "api_pizzas_created"),
		logging.Int(logging.FieldRecordCount, len(created)),
		logging.Bool("batch", batch),
	)
	if batch {
		writeJSON(w, http.StatusOK, created)
		return
	}
	if len(created) == 0 {
		writeMessage(w, http.StatusInternalServerError, "pizza was not created")
		return
	}
	writeJSON(w, http.StatusOK, created[0])
}

func (s *Server) handleGetPizza(w http.ResponseWriter, r *http.Request) {
	pizza, err := s.pizzas.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}
	writeJSON(w, http.StatusOK, pizza)
}

func (s *Server) handleUpdatePizza(w http.ResponseWriter, r *http.Request) {
	var req api.PizzaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pizza, err := s.pizzas.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}
	writeJSON(w, http.StatusOK, pizza)
}

func (s *Server) handleDeletePizza(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pizza, err := s.pizzas.Delete(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}
	s.requestLog(r).Info("pizza deleted",
		logging.String(logging.FieldEventType, "api_pizza_deleted"),
		logging.String(logging.FieldPizzaID, id),
	)
	writeJSON(w, http.StatusOK, pizza)
}
