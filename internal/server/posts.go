package server

import (
	"net/http"
	"strconv"

	"forummini/internal/app"
)

type createPostRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

type updatePostRequest struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.post.create", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	post, err := s.app.CreatePost(r.Context(), app.CreatePostInput{
		Title:  req.Title,
		Body:   req.Body,
		UserID: req.UserID,
	})
	if err != nil {
		s.audit(r, "forum.post.create", "fail", "user_id", req.UserID, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.post.create", "success", "post_id", post.ID, "user_id", post.UserID)
	writeCreated(w, "/posts/"+strconv.Itoa(post.ID), post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.post.update", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	post, err := s.app.UpdatePost(r.Context(), id, app.UpdatePostInput{
		ID:    req.ID,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		s.audit(r, "forum.post.update", "fail", "post_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.post.update", "success", "post_id", id)
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	if err := s.app.DeletePost(r.Context(), id); err != nil {
		s.audit(r, "forum.post.delete", "fail", "post_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.post.delete", "success", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid post id")
		return
	}
	includeComments, err := queryBool(r, "includeComments")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	post, err := s.app.GetPost(r.Context(), id, includeComments)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "userId")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	q := r.URL.Query()
	posts, err := s.app.ListPosts(r.Context(), app.PostQuery{
		Title:    q.Get("title"),
		UserID:   userID,
		UserName: q.Get("userName"),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
