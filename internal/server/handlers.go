package server

import (
	"encoding/json"
	"io"
	"net/http"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/validation"
	"iris-assistant/internal/dispatch"
	"iris-assistant/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationErrors(w http.ResponseWriter, result *validation.Result) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": result.Errors,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if result := s.validator.ValidateCredentials(body); !result.Valid {
		writeValidationErrors(w, result)
		return
	}

	var req credentialsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.credentials.Insert(r.Context(), req.Email, req.Password)
	if err != nil {
		if stderrors.IsAlreadyExists(err) {
			writeError(w, http.StatusConflict, stderrors.UserMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, stderrors.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"email": user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if result := s.validator.ValidateCredentials(body); !result.Valid {
		writeValidationErrors(w, result)
		return
	}

	var req credentialsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.credentials.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if stderrors.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, stderrors.UserMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, stderrors.UserMessage(err))
		return
	}

	token, err := s.sessions.Create(r.Context(), user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, stderrors.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	email := UserEmail(r.Context())
	turns, err := s.history.Load(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, stderrors.UserMessage(err))
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if result := s.validator.ValidateChatRequest(body); !result.Valid {
		writeValidationErrors(w, result)
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	email := UserEmail(r.Context())
	history, err := s.history.Load(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, stderrors.UserMessage(err))
		return
	}

	resp := s.dispatcher.Handle(r.Context(), dispatch.Request{
		UserID:  email,
		Text:    req.Message,
		History: history,
	})

	s.streamResponse(w, r, req.Message, email, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.redis.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"redis":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
