// Package http provides the HTTP API for the todo service.
//
// The package implements a bearer-token-authenticated REST API over the
// todo operations: listing, creating, updating, and deleting records, and
// issuing time-limited signed upload URLs for attachments.
//
// # Routes
//
//	GET    /todos                     list the caller's todos
//	POST   /todos                     create a todo
//	PATCH  /todos/{todoId}            update name, due date, and done
//	DELETE /todos/{todoId}            delete a todo
//	POST   /todos/{todoId}/attachment issue a signed upload URL
//
// # Authentication
//
// Every route sits behind AuthMiddleware, which delegates to an Authorizer.
// A deny decision produces a uniform 401 with no detail about the failure;
// an allowed request carries the resolved principal in its context, and
// handlers scope all reads and creates to that principal.
//
//	verifier, _ := todovault.NewTokenVerifier(key, leeway)
//	cfg := http.HandlerConfig{Authorizer: verifier}
//	handler := http.NewHandler(&cfg, service)
//	http.ListenAndServe(":8080", handler.Router())
//
// Pass a nil Authorizer for public access (tests, local development).
//
// # Errors
//
// Errors are JSON objects of the form {"error": code, "message": text}.
// Missing records map to 404 not_found, malformed or invalid bodies to
// 400 invalid_body, credential failures to 401 unauthorized, and anything
// else to 500 internal_error.
package http
