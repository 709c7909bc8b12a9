// Package todovault provides a token-authorized todo backend with per-item
// file attachments delivered through time-limited signed URLs.
//
// Todovault implements the core todo operations (list, create, update, delete,
// issue upload link) over a pluggable record store addressed by a composite
// (todoId, createdAt) key with a secondary index on the owning user.
//
// # Key Components
//
//   - TodoService: Main service combining the record repository and link issuer
//   - TodoRepo: Interface for record persistence (SQLite, PostgreSQL, DynamoDB)
//   - LinkIssuer: Interface for signed upload/download URL generation (S3)
//   - TokenVerifier: RS256 bearer token verification against a fixed certificate
//
// # Example Usage
//
//	service, err := todovault.NewTodoService(repo, issuer, todovault.ServiceConfig{
//	    AttachmentBaseURL: "https://media.example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a todo for the authenticated caller
//	item, err := service.Create(ctx, ownerID, todovault.CreateTodoRequest{
//	    Name:    "Buy milk",
//	    DueDate: "2024-01-01",
//	})
//
//	// Issue a time-limited upload link for its attachment
//	uploadURL, err := service.IssueAttachmentLinks(ctx, item.TodoID)
//
// See the http package for the REST API implementation and the database
// packages for record store backends.
package todovault
