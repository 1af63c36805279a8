package response

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"strings"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError renders validator errors as one readable sentence.
// Non-validator errors are passed through as is.
func ValidationError(err error) Response {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Error(err.Error())
	}

	var errMsgs []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", e.Field()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param()))
		case "latitude", "longitude":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid %s", e.Field(), e.ActualTag()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", e.Field()))
		}
	}

	return Error(strings.Join(errMsgs, ", "))
}
