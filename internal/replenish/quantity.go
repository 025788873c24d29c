package replenish

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonNotInteger
	ReasonNegative
)

// ValidationError dotyczy jednej pozycji partii (Row liczone od 1).
type ValidationError struct {
	Row    int
	Value  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return fmt.Sprintf("fila %d: cantidad vacía (puede ser 0, pero no vacía)", e.Row)
	case ReasonNotInteger:
		return fmt.Sprintf("fila %d: cantidad inválida: '%s'", e.Row, e.Value)
	case ReasonNegative:
		return fmt.Sprintf("fila %d: cantidad negativa", e.Row)
	default:
		return fmt.Sprintf("fila %d: cantidad no válida", e.Row)
	}
}

var ErrQuantityCount = errors.New("la cantidad de valores no coincide con la reposición pendiente")

// ParseQuantity: liczba całkowita >= 0, białe znaki na brzegach ignorowane.
func ParseQuantity(value string) (int, Reason, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, ReasonEmpty, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ReasonNotInteger, false
	}
	if n < 0 {
		return 0, ReasonNegative, false
	}
	return n, 0, true
}

// ParseQuantities zatrzymuje się na pierwszym błędnym wierszu.
func ParseQuantities(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, reason, ok := ParseQuantity(v)
		if !ok {
			return nil, &ValidationError{Row: i + 1, Value: strings.TrimSpace(v), Reason: reason}
		}
		out[i] = n
	}
	return out, nil
}
