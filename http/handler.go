package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/todovault/todovault"
)

type Service interface {
	List(ctx context.Context, ownerID string) ([]todovault.TodoItem, error)
	Create(ctx context.Context, ownerID string, req todovault.CreateTodoRequest) (todovault.TodoItem, error)
	Update(ctx context.Context, todoID string, req todovault.UpdateTodoRequest) (todovault.TodoUpdate, error)
	Delete(ctx context.Context, todoID string) error
	IssueAttachmentLinks(ctx context.Context, todoID string) (string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	Authorizer Authorizer
	CORS       CORSConfig
}

// UploadLinkResponse carries the signed upload URL issued for an attachment.
type UploadLinkResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// Handler provides HTTP handlers for the todo operations.
type Handler struct {
	config   HandlerConfig
	service  Service
	validate *validator.Validate
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:   *config,
		service:  service,
		validate: validator.New(),
	}
}

// Router returns an http.Handler with the todo routes configured. Every
// route sits behind the auth middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/todos", func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.Authorizer))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Patch("/{todoId}", h.handleUpdate)
		r.Delete("/{todoId}", h.handleDelete)
		r.Post("/{todoId}/attachment", h.handleAttachment)
	})

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PrincipalFromContext(r.Context())
	if !ok {
		HandleError(w, ErrUnauthorized)
		return
	}

	items, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PrincipalFromContext(r.Context())
	if !ok {
		HandleError(w, ErrUnauthorized)
		return
	}

	var req todovault.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "todoId")

	var req todovault.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	if _, err := h.service.Update(r.Context(), todoID, req); err != nil {
		HandleError(w, err)
		return
	}

	// 201 with no body, matching the contract relied on by existing clients
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "todoId")

	if err := h.service.Delete(r.Context(), todoID); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, "Todo Deleted")
}

func (h *Handler) handleAttachment(w http.ResponseWriter, r *http.Request) {
	todoID := chi.URLParam(r, "todoId")

	uploadURL, err := h.service.IssueAttachmentLinks(r.Context(), todoID)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, UploadLinkResponse{UploadURL: uploadURL})
}
