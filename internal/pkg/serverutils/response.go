package serverutils

// ErrorBody is the envelope returned on every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Success: false, Message: message}
}
