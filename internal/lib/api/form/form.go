package form

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrTooLarge = errors.New("request body too large")

// ParseMultipart parses a multipart body of at most maxBody bytes, keeping
// up to maxMemory of it in memory. A body over the limit yields ErrTooLarge.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxMemory, maxBody int64) error {
	const op = "form.ParseMultipart"

	if maxBody > 0 {
		if r.ContentLength > maxBody {
			return fmt.Errorf("%s: %w", op, ErrTooLarge)
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%s: %w", op, ErrTooLarge)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
