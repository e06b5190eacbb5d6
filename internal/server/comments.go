package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pizzahunt/internal/api"
	"pizzahunt/internal/logging"
)

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req api.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pizzaID := chi.URLParam(r, "pizzaId")
	pizza, err := s.comments.AddComment(r.Context(), pizzaID, req)
	if err != nil {
		s.writeStoreError(w, r, err, pizzaRoute)
		return
	}
	s.requestLog(r).Info("comment added",
		logging.String(logging.FieldEventType, "api_comment_added"),
		logging.String(logging.FieldPizzaID, pizzaID),
	)
	writeJSON(w, http.StatusOK, pizza)
}

func (s *Server) handleAddReply(w http.ResponseWriter, r *http.Request) {
	var req api.ReplyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := s.comments.AddReply(r.Context(), chi.URLParam(r, "pizzaId"), chi.URLParam(r, "commentId"), req)
	if err != nil {
		s.writeStoreError(w, r, err, replyRoute)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleRemoveComment(w http.ResponseWriter, r *http.Request) {
	pizzaID := chi.URLParam(r, "pizzaId")
	commentID := chi.URLParam(r, "commentId")
	pizza, err := s.comments.RemoveComment(r.Context(), pizzaID, commentID)
	if err != nil {
		s.writeStoreError(w, r, err, removeCommentRoute)
		return
	}
	s.requestLog(r).Info("comment removed",
		logging.String(logging.FieldEventType, "api_comment_removed"),
		logging.String(logging.FieldPizzaID, pizzaID),
		logging.String(logging.FieldCommentID, commentID),
	)
	writeJSON(w, http.StatusOK, pizza)
}

func (s *Server) handleRemoveReply(w http.ResponseWriter, r *http.Request) {
	comment, err := s.comments.RemoveReply(r.Context(),
		chi.URLParam(r, "pizzaId"),
		chi.URLParam(r, "commentId"),
		chi.URLParam(r, "replyId"),
	)
	if err != nil {
		s.writeStoreError(w, r, err, replyRoute)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
