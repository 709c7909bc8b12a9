package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatTodoList(w io.Writer, todos []Todo) error
	FormatTodo(w io.Writer, todo *Todo) error
	FormatDelete(w io.Writer, todoID string) error
	FormatUpload(w io.Writer, result UploadResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatTodoList formats todos as a human-readable table.
func (f *HumanFormatter) FormatTodoList(w io.Writer, todos []Todo) error {
	if len(todos) == 0 {
		_, _ = fmt.Fprintln(w, "No todos found")
		return nil
	}

	maxNameLen := 4 // "NAME"
	for i := range todos {
		if len(todos[i].Name) > maxNameLen {
			maxNameLen = len(todos[i].Name)
		}
	}
	if maxNameLen > 40 {
		maxNameLen = 40
	}

	_, _ = fmt.Fprintf(w, "  %-36s  %-*s  %-10s  %s\n", "ID", maxNameLen, "NAME", "DUE", "DONE")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n", strings.Repeat("-", 36), strings.Repeat("-", maxNameLen), strings.Repeat("-", 10), strings.Repeat("-", 4))

	for i := range todos {
		t := &todos[i]
		name := t.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}
		marker := " "
		if t.Done {
			marker = "x"
		}
		_, _ = fmt.Fprintf(w, "%s %-36s  %-*s  %-10s  %v\n", marker, t.TodoID, maxNameLen, name, t.DueDate, t.Done)
	}

	_, _ = fmt.Fprintf(w, "\n%d todo(s)\n", len(todos))
	return nil
}

// FormatTodo formats a single todo as human-readable text.
func (f *HumanFormatter) FormatTodo(w io.Writer, todo *Todo) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, todo.TodoID)
		return nil
	}
	_, _ = fmt.Fprintf(w, "ID:         %s\n", todo.TodoID)
	_, _ = fmt.Fprintf(w, "Name:       %s\n", todo.Name)
	_, _ = fmt.Fprintf(w, "Due:        %s\n", todo.DueDate)
	_, _ = fmt.Fprintf(w, "Done:       %v\n", todo.Done)
	_, _ = fmt.Fprintf(w, "Created:    %s\n", todo.CreatedAt)
	if todo.AttachmentURL != "" {
		_, _ = fmt.Fprintf(w, "Attachment: %s\n", todo.AttachmentURL)
	}
	return nil
}

// FormatDelete formats a delete result as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, todoID string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Deleted: %s\n", todoID)
	}
	return nil
}

// FormatUpload formats an attachment upload result as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result UploadResult) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Uploaded: %s -> %s (%s)\n", result.LocalPath, result.TodoID, formatSize(result.Size))
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "TOKEN")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		endpoint := p.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, maskSecret(p.Token, showSecrets))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:    %s\n", maskSecret(profile.Token, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatTodoList formats todos as JSON.
func (f *JSONFormatter) FormatTodoList(w io.Writer, todos []Todo) error {
	output := struct {
		Todos []Todo `json:"todos"`
	}{
		Todos: todos,
	}
	return writeJSON(w, output)
}

// FormatTodo formats a single todo as JSON.
func (f *JSONFormatter) FormatTodo(w io.Writer, todo *Todo) error {
	return writeJSON(w, todo)
}

// FormatDelete formats a delete result as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, todoID string) error {
	output := struct {
		TodoID  string `json:"todoId"`
		Deleted bool   `json:"deleted"`
	}{
		TodoID:  todoID,
		Deleted: true,
	}
	return writeJSON(w, output)
}

// FormatUpload formats an attachment upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result UploadResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Token    string `json:"token,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Token:    maskSecret(p.Token, showSecrets),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Token    string `json:"token"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Token:    maskSecret(profile.Token, showSecrets),
		Default:  isDefault,
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
