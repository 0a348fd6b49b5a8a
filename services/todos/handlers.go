package todos

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

// Service exposes per-user todo CRUD. The acting user comes from the
// X-User-ID header; session handling is out of scope here.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/todos", s.HandleCreateTodo).Methods(http.MethodPost)
	r.HandleFunc("/todos", s.HandleListTodos).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}", s.HandleGetTodo).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}", s.HandleUpdateTodo).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id}/complete", s.HandleCompleteTodo).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id}", s.HandleDeleteTodo).Methods(http.MethodDelete)
}

func (s *Service) HandleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := web.UserID(r)
	if err != nil {
		web.Detail(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req CreateRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.validate(); err != nil {
		web.Detail(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.insertTodo(r.Context(), userID, req)
	if err != nil {
		slog.Error("Failed to create todo", "user_id", userID, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	slog.Info("Created new todo", "user_id", userID, "todo_id", todo.ID)
	web.JSON(w, http.StatusCreated, todo)
}

func (s *Service) HandleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := web.UserID(r)
	if err != nil {
		web.Detail(w, http.StatusUnauthorized, err.Error())
		return
	}

	todos, err := s.listTodos(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to list todos", "user_id", userID, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to list todos")
		return
	}

	web.JSON(w, http.StatusOK, todos)
}

func (s *Service) HandleGetTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	todo, err := s.getTodoByID(r.Context(), userID, todoID)
	if err != nil {
		s.writeRepositoryError(w, err, userID, todoID)
		return
	}

	web.JSON(w, http.StatusOK, todo)
}

func (s *Service) HandleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.validate(); err != nil {
		web.Detail(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.updateTodo(r.Context(), userID, todoID, req)
	if err != nil {
		s.writeRepositoryError(w, err, userID, todoID)
		return
	}

	slog.Info("Updated todo", "user_id", userID, "todo_id", todoID)
	web.JSON(w, http.StatusOK, todo)
}

func (s *Service) HandleCompleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	todo, err := s.completeTodo(r.Context(), userID, todoID)
	if err != nil {
		s.writeRepositoryError(w, err, userID, todoID)
		return
	}

	slog.Info("Todo marked as completed", "user_id", userID, "todo_id", todoID)
	web.JSON(w, http.StatusOK, todo)
}

func (s *Service) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := s.requestIDs(w, r)
	if !ok {
		return
	}

	if err := s.deleteTodo(r.Context(), userID, todoID); err != nil {
		s.writeRepositoryError(w, err, userID, todoID)
		return
	}

	slog.Info("Todo deleted", "user_id", userID, "todo_id", todoID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) requestIDs(w http.ResponseWriter, r *http.Request) (userID, todoID uuid.UUID, ok bool) {
	userID, err := web.UserID(r)
	if err != nil {
		web.Detail(w, http.StatusUnauthorized, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	todoID, err = uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		web.Detail(w, http.StatusBadRequest, ErrInvalidTodoID.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return userID, todoID, true
}

func (s *Service) writeRepositoryError(w http.ResponseWriter, err error, userID, todoID uuid.UUID) {
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Warn("Todo not found", "user_id", userID, "todo_id", todoID)
		web.Detail(w, http.StatusNotFound, ErrTodoNotFound.Error())
		return
	}
	slog.Error("Todo repository error", "user_id", userID, "todo_id", todoID, "error", err)
	web.Detail(w, http.StatusInternalServerError, "internal server error")
}
