package response

// Response represents a standard API response format
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Message returns a success response carrying only a human readable message
func Message(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

// Error returns a standard error response wrapping the error message
func Error(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// Page is the data payload of paginated list endpoints
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
