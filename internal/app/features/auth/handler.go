// internal/app/features/auth/handler.go

// Package auth serves password-based registration, login, and logout.
// OAuth sign-in lives in the authgoogle feature; both end in the same
// cookie session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripnest/tripnest/internal/app/features/shared/respond"
	userstore "github.com/tripnest/tripnest/internal/app/store/users"
	"github.com/tripnest/tripnest/internal/app/system/apperr"
	sysauth "github.com/tripnest/tripnest/internal/app/system/auth"
	"github.com/tripnest/tripnest/internal/app/system/timeouts"
	"github.com/tripnest/tripnest/internal/domain/models"
)

// Handler holds dependencies for password authentication.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *sysauth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *sysauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sessionMgr, Log: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registerRequest) validate() error {
	var fields []apperr.FieldError
	if req.Username == "" {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "username is required"})
	}
	if req.Email == "" {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is required"})
	}
	if len(req.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(fields) > 0 {
		return apperr.Validationf(fields, "invalid registration input")
	}
	return nil
}

// ServeRegister handles POST /auth/register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "hashing password"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		AuthMethod:   "password",
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			respond.Error(w, h.Log, apperr.Conflictf("username or email already taken"))
			return
		}
		respond.Error(w, h.Log, apperr.Wrap(err, "creating user"))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sysauth.SessionUser{ID: user.ID.Hex(), Username: user.Username}); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "writing session"))
		return
	}

	h.Log.Info("user registered", zap.String("user_id", user.ID.Hex()))
	respond.Data(w, http.StatusCreated, user, "registration successful")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles POST /auth/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Log, apperr.Validationf(nil, "malformed JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Same response as a wrong password so usernames can't be probed.
		respond.Error(w, h.Log, apperr.Forbiddenf("invalid username or password"))
		return
	}
	if err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "loading user"))
		return
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respond.Error(w, h.Log, apperr.Forbiddenf("invalid username or password"))
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sysauth.SessionUser{ID: user.ID.Hex(), Username: user.Username}); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "writing session"))
		return
	}

	if err := h.Users.TouchActive(ctx, user.ID); err != nil {
		h.Log.Warn("failed to stamp last_active_at", zap.Error(err))
	}

	respond.Data(w, http.StatusOK, user, "login successful")
}

// ServeLogout handles POST /auth/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		respond.Error(w, h.Log, apperr.Wrap(err, "clearing session"))
		return
	}
	respond.Data(w, http.StatusOK, nil, "logged out")
}
