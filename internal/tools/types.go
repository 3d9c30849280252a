package tools

// Status indicates the outcome of a tool operation.
type Status string

const (
	// StatusSuccess indicates the operation completed and Text holds the
	// response.
	StatusSuccess Status = "success"

	// StatusError indicates a domain failure; Error holds the user-facing
	// message. System failures use Go errors instead.
	StatusError Status = "error"
)

// ErrCode classifies domain failures for logging and clients.
type ErrCode string

const (
	// ErrCodeAuth indicates authentication against Earthdata Login failed.
	ErrCodeAuth ErrCode = "AUTH_FAILED"

	// ErrCodePrecondition indicates required parameters were missing.
	ErrCodePrecondition ErrCode = "PRECONDITION_FAILED"

	// ErrCodeUpstream indicates the catalog rejected or failed a request.
	ErrCodeUpstream ErrCode = "UPSTREAM_FAILED"

	// ErrCodeNotFound indicates the search matched nothing.
	ErrCodeNotFound ErrCode = "NOT_FOUND"

	// ErrCodeDownload indicates the file transfer produced no usable result.
	ErrCodeDownload ErrCode = "DOWNLOAD_FAILED"
)

// Error is a structured domain error carried inside a Result. Message is the
// complete user-facing text; Code exists for logs and clients.
type Error struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
}

// Result is the envelope every tool operation returns. Domain failures
// (bad parameters, upstream rejection, empty results) travel here as text;
// the accompanying Go error is reserved for system failure.
type Result struct {
	Status Status `json:"status"`
	Text   string `json:"text,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// success wraps response text in a successful Result.
func success(text string) Result {
	return Result{Status: StatusSuccess, Text: text}
}

// failure builds an error Result with a user-facing message.
func failure(code ErrCode, message string) Result {
	return Result{
		Status: StatusError,
		Error:  &Error{Code: code, Message: message},
	}
}
