package clientcli

// Todo mirrors the JSON representation of a todo item returned by the server.
type Todo struct {
	TodoID        string `json:"todoId"`
	CreatedAt     string `json:"createdAt"`
	Name          string `json:"name"`
	DueDate       string `json:"dueDate"`
	Done          bool   `json:"done"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

// CreateTodoInput holds the fields for creating a todo.
type CreateTodoInput struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
}

// UpdateTodoInput holds the fields for updating a todo.
type UpdateTodoInput struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}

// UploadLink is the server response for an attachment link request.
type UploadLink struct {
	UploadURL string `json:"uploadUrl"`
}

// UploadResult describes an attachment upload performed against a signed URL.
type UploadResult struct {
	TodoID    string `json:"todoId"`
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size_bytes"`
	UploadURL string `json:"-"`
}

// serverErrorResponse mirrors the JSON error envelope from the server.
type serverErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
