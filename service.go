package todovault

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TodoRepo defines the interface for todo record persistence.
// Implementations must handle concurrent access safely and map a missing
// record to ErrNotFound rather than faulting.
//
// The store addresses records by the composite (todoId, createdAt) key, so
// every mutating method resolves the createdAt sort key for the given id
// before writing. ResolveCreatedAt exposes that resolution as a repository
// primitive.
type TodoRepo interface {
	// ListByOwner returns all records owned by ownerID via the owner
	// secondary index. Ordering is store-defined. Returns an empty slice,
	// not nil, when the owner has no records.
	ListByOwner(ctx context.Context, ownerID string) ([]TodoItem, error)

	// Create inserts a fully populated record. The caller pre-fills every
	// field, including the generated id and timestamp.
	Create(ctx context.Context, item TodoItem) (TodoItem, error)

	// ResolveCreatedAt looks up the createdAt sort key for a todo id.
	// Returns ErrNotFound if no record exists.
	ResolveCreatedAt(ctx context.Context, todoID string) (string, error)

	// Update overwrites exactly the name, dueDate, and done fields and
	// returns them as applied. Returns ErrNotFound for a missing id.
	Update(ctx context.Context, todoID string, upd TodoUpdate) (TodoUpdate, error)

	// Delete removes the record. Returns ErrNotFound for a missing id.
	Delete(ctx context.Context, todoID string) error

	// SetAttachmentURL overwrites the attachmentUrl field only.
	// Returns ErrNotFound for a missing id.
	SetAttachmentURL(ctx context.Context, todoID, url string) error
}

// LinkIssuer produces time-limited signed URLs for object store locations.
// Implementations delegate the signing mechanics to the object store SDK.
type LinkIssuer interface {
	// UploadURL returns a signed URL granting a PUT on the object key,
	// valid for the given duration from issuance.
	UploadURL(ctx context.Context, key string, expires time.Duration) (string, error)

	// DownloadURL returns a signed URL granting a GET on the object key,
	// valid for the given duration from issuance.
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// DefaultLinkTTL is the validity window for issued attachment links.
const DefaultLinkTTL = 5 * time.Minute

// TodoService implements the todo business operations on top of a record
// repository and a link issuer.
type TodoService struct {
	repo            TodoRepo
	links           LinkIssuer
	attachmentBase  string
	legacyObjectKey string
	linkTTL         time.Duration
}

// ServiceConfig holds configuration options for TodoService.
type ServiceConfig struct {
	// AttachmentBaseURL is the stable public URL base under which each
	// item's attachment object is reachable, e.g.
	// "https://my-bucket.s3.amazonaws.com".
	AttachmentBaseURL string

	// LegacyObjectKey, when set, pins link signing to this fixed object key
	// instead of deriving <todoId>.png. It reproduces a historical
	// deployment whose signing target was a single literal key.
	LegacyObjectKey string

	// LinkTTL is the validity window for issued links (default 5m).
	LinkTTL time.Duration
}

// NewTodoService creates a TodoService from a repository, a link issuer, and
// configuration.
func NewTodoService(repo TodoRepo, links LinkIssuer, cfg ServiceConfig) (*TodoService, error) {
	if repo == nil {
		return nil, fmt.Errorf("new todo service: %w: repo cannot be nil", ErrInvalidInput)
	}
	if cfg.AttachmentBaseURL == "" {
		return nil, fmt.Errorf("new todo service: %w: attachment base URL cannot be empty", ErrInvalidInput)
	}
	linkTTL := cfg.LinkTTL
	if linkTTL <= 0 {
		linkTTL = DefaultLinkTTL
	}
	return &TodoService{
		repo:            repo,
		links:           links,
		attachmentBase:  strings.TrimSuffix(cfg.AttachmentBaseURL, "/"),
		legacyObjectKey: cfg.LegacyObjectKey,
		linkTTL:         linkTTL,
	}, nil
}

// List returns all todos owned by ownerID.
func (s *TodoService) List(ctx context.Context, ownerID string) ([]TodoItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	if ownerID == "" {
		return nil, fmt.Errorf("list todos: %w: owner id cannot be empty", ErrInvalidInput)
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return items, nil
}

// Create generates an id and creation timestamp, fills defaults, and inserts
// a new record for ownerID.
//
// The new record's Done flag is false and its AttachmentURL points at the
// stable per-item object location (<base>/<todoId>.png) even before anything
// is uploaded there.
func (s *TodoService) Create(ctx context.Context, ownerID string, req CreateTodoRequest) (TodoItem, error) {
	if err := ctx.Err(); err != nil {
		return TodoItem{}, fmt.Errorf("create todo: %w", err)
	}

	if ownerID == "" {
		return TodoItem{}, fmt.Errorf("create todo: %w: owner id cannot be empty", ErrInvalidInput)
	}

	if req.Name == "" {
		return TodoItem{}, fmt.Errorf("create todo: %w: name cannot be empty", ErrInvalidInput)
	}

	todoID := uuid.NewString()
	item := TodoItem{
		TodoID:        todoID,
		OwnerID:       ownerID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
		Name:          req.Name,
		DueDate:       req.DueDate,
		Done:          false,
		AttachmentURL: s.attachmentBase + "/" + todoID + ".png",
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return TodoItem{}, fmt.Errorf("create todo %s: %w", todoID, err)
	}

	return created, nil
}

// Update overwrites the three mutable fields of the record and returns them
// as applied.
func (s *TodoService) Update(ctx context.Context, todoID string, req UpdateTodoRequest) (TodoUpdate, error) {
	if err := ctx.Err(); err != nil {
		return TodoUpdate{}, fmt.Errorf("update todo: %w", err)
	}

	if !IsValidTodoID(todoID) {
		return TodoUpdate{}, fmt.Errorf("update todo %s: %w", todoID, ErrInvalidInput)
	}

	upd, err := s.repo.Update(ctx, todoID, TodoUpdate{
		Name:    req.Name,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		return TodoUpdate{}, fmt.Errorf("update todo %s: %w", todoID, err)
	}

	return upd, nil
}

// Delete removes the record. Deleting an id that does not exist returns
// ErrNotFound.
func (s *TodoService) Delete(ctx context.Context, todoID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	if !IsValidTodoID(todoID) {
		return fmt.Errorf("delete todo %s: %w", todoID, ErrInvalidInput)
	}

	if err := s.repo.Delete(ctx, todoID); err != nil {
		return fmt.Errorf("delete todo %s: %w", todoID, err)
	}

	return nil
}

// IssueAttachmentLinks signs a time-limited upload URL and download URL for
// the item's attachment object, persists the download URL onto the record,
// and returns the upload URL.
//
// The download URL is not returned; it is discoverable later by reading the
// record's attachmentUrl.
func (s *TodoService) IssueAttachmentLinks(ctx context.Context, todoID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("issue attachment links: %w", err)
	}

	if !IsValidTodoID(todoID) {
		return "", fmt.Errorf("issue attachment links %s: %w", todoID, ErrInvalidInput)
	}

	if s.links == nil {
		return "", fmt.Errorf("issue attachment links %s: %w: no link issuer configured", todoID, ErrInternal)
	}

	key := s.objectKey(todoID)

	uploadURL, err := s.links.UploadURL(ctx, key, s.linkTTL)
	if err != nil {
		return "", fmt.Errorf("issue attachment links %s: sign upload: %w", todoID, err)
	}

	downloadURL, err := s.links.DownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		return "", fmt.Errorf("issue attachment links %s: sign download: %w", todoID, err)
	}

	if err := s.repo.SetAttachmentURL(ctx, todoID, downloadURL); err != nil {
		return "", fmt.Errorf("issue attachment links %s: %w", todoID, err)
	}

	return uploadURL, nil
}

func (s *TodoService) objectKey(todoID string) string {
	if s.legacyObjectKey != "" {
		return s.legacyObjectKey
	}
	return todoID + ".png"
}
