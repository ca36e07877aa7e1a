package server

import (
	"net/http"
	"strconv"

	"forummini/internal/app"
)

type createUserRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	ID       int    `json:"id"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.user.create", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	user, err := s.app.CreateUser(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.audit(r, "forum.user.create", "fail", "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.user.create", "success", "user_id", user.ID)
	writeCreated(w, "/users/"+strconv.Itoa(user.ID), user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.audit(r, "forum.user.update", "fail", "reason", "invalid_json")
		writeBadRequest(w, "invalid JSON body")
		return
	}
	user, err := s.app.UpdateUser(r.Context(), id, app.UpdateUserInput{
		ID:       req.ID,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		s.audit(r, "forum.user.update", "fail", "user_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.user.update", "success", "user_id", id)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}
	if err := s.app.DeleteUser(r.Context(), id); err != nil {
		s.audit(r, "forum.user.delete", "fail", "user_id", id, "reason", err.Error())
		writeAppError(w, r, err)
		return
	}
	s.audit(r, "forum.user.delete", "success", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}
	user, err := s.app.GetUser(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.app.ListUsers(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
