package requests

import (
	"fmt"
	"strings"
)

// ValidationError перечисляет все некорректные поля заявки разом.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s", strings.Join(e.Fields, ", "))
}
