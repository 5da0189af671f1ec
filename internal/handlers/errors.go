package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	status  int
	Message string   `doc:"Error message"              json:"error"`
	Errors  []string `doc:"Individual problem details" json:"errors,omitempty"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *ErrorBody) GetStatus() int {
	return e.status
}

// NewError builds an ErrorBody. It replaces huma.NewError, so framework
// errors such as malformed JSON share the same shape. Schema validation
// failures are reported as 400 like any other bad input.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	body := &ErrorBody{status: status, Message: msg}

	for _, err := range errs {
		if err != nil {
			body.Errors = append(body.Errors, err.Error())
		}
	}

	return body
}

func validationError(problems []string) huma.StatusError {
	return &ErrorBody{
		status:  http.StatusBadRequest,
		Message: "Datos de registro inválidos",
		Errors:  problems,
	}
}

func init() {
	huma.NewError = NewError
}
