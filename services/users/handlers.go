package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comfyui-gateway/web"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users", s.HandleRegister).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", s.HandleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/password", s.HandleChangePassword).Methods(http.MethodPut)
}

func (s *Service) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.validate(); err != nil {
		web.Detail(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	user, err := s.insertUser(r.Context(), req, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			web.Detail(w, http.StatusConflict, err.Error())
			return
		}
		slog.Error("Failed to register user", "email", req.Email, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	slog.Info("Registered new user", "user_id", user.ID)
	web.JSON(w, http.StatusCreated, user)
}

func (s *Service) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		web.Detail(w, http.StatusBadRequest, ErrInvalidUserID.Error())
		return
	}

	user, err := s.getUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("User not found", "user_id", id)
			web.Detail(w, http.StatusNotFound, ErrUserNotFound.Error())
			return
		}
		slog.Error("Failed to fetch user", "user_id", id, "error", err)
		web.Detail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	web.JSON(w, http.StatusOK, user)
}

func (s *Service) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		web.Detail(w, http.StatusBadRequest, ErrInvalidUserID.Error())
		return
	}

	var req PasswordChange
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := s.getUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			web.Detail(w, http.StatusNotFound, ErrUserNotFound.Error())
			return
		}
		slog.Error("Failed to fetch user", "user_id", id, "error", err)
		web.Detail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !verifyPassword(req.CurrentPassword, user.PasswordHash) {
		slog.Warn("Invalid current password on change attempt", "user_id", id)
		web.Detail(w, http.StatusUnauthorized, ErrInvalidPassword.Error())
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.NewPasswordConfirm {
		slog.Warn("Password mismatch on change attempt", "user_id", id)
		web.Detail(w, http.StatusBadRequest, ErrPasswordMismatch.Error())
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		slog.Error("Failed to hash password", "user_id", id, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if err := s.updatePasswordHash(r.Context(), id, hash); err != nil {
		slog.Error("Failed to update password", "user_id", id, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	slog.Info("Password changed", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
