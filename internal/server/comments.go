package server

import (
	"net/http"
	"strconv"

	"forummini/internal/app"
)

type createCommentRequest struct {
	Body   string `json:"body"`
	UserID int    `json:"userId"`
	PostID int    `json:"postId"`
}

type updateCommentRequest struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.comment.create", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	comment, err := s.app.CreateComment(r.Context(), app.CreateCommentInput{
		Body:   req.Body,
		UserID: req.UserID,
		PostID: req.PostID,
	})
	if err != nil {
		s.audit(r, "forum.comment.create", "fail", "user_id", req.UserID, "post_id", req.PostID, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.comment.create", "success", "comment_id", comment.ID, "post_id", comment.PostID)
	writeCreated(w, "/comments/"+strconv.Itoa(comment.ID), comment)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid comment id")
		return
	}
	var req updateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.comment.update", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	comment, err := s.app.UpdateComment(r.Context(), id, app.UpdateCommentInput{ID: req.ID, Body: req.Body})
	if err != nil {
		s.audit(r, "forum.comment.update", "fail", "comment_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.comment.update", "success", "comment_id", id)
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid comment id")
		return
	}
	if err := s.app.DeleteComment(r.Context(), id); err != nil {
		s.audit(r, "forum.comment.delete", "fail", "comment_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.comment.delete", "success", "comment_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid comment id")
		return
	}
	comment, err := s.app.GetComment(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "userId")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	postID, err := queryInt(r, "postId")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	comments, err := s.app.ListComments(r.Context(), app.CommentQuery{
		UserID:   userID,
		PostID:   postID,
		UserName: r.URL.Query().Get("userName"),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
