package layoutadmin

import "fmt"

type ErrorItem struct {
	Message string `json:"message"`
}

// Error is a structured response indicating a non-2xx HTTP response.
type Error struct {
	Err    ErrorItem `json:"error"`
	Status int       `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("layoutadmin: status=%d: %s", e.Status, e.Err.Message)
}
