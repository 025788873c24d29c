package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Kind mówi, na którym etapie ładowania coś padło.
type Kind int

const (
	MissingSourceFile Kind = iota + 1
	CorruptSource
	SchemaViolation
	NormalizationFailure
	JoinFailure
)

func (k Kind) String() string {
	switch k {
	case MissingSourceFile:
		return "archivo faltante"
	case CorruptSource:
		return "archivo corrupto"
	case SchemaViolation:
		return "columnas requeridas"
	case NormalizationFailure:
		return "normalización"
	case JoinFailure:
		return "unión de tablas"
	default:
		return "desconocido"
	}
}

// LoadError to każdy fatalny błąd ładowania danych źródłowych.
// File to nazwa pliku (albo para plików dla JoinFailure).
type LoadError struct {
	Kind    Kind
	File    string
	Columns []string // tylko SchemaViolation
	Err     error
}

func (e *LoadError) Error() string {
	var msg string
	switch e.Kind {
	case MissingSourceFile:
		msg = fmt.Sprintf("falta el archivo requerido: %s (debe colocarse dentro de la carpeta de datos)", e.File)
	case CorruptSource:
		msg = fmt.Sprintf("el archivo %s está corrupto o mal formateado; revisar separadores, encoding o columnas", e.File)
	case SchemaViolation:
		msg = fmt.Sprintf("error en %s: faltan columnas requeridas: %s", e.File, strings.Join(e.Columns, ", "))
	case NormalizationFailure:
		msg = fmt.Sprintf("error normalizando textos de producto en %s", e.File)
	case JoinFailure:
		msg = fmt.Sprintf("error al unir %s", e.File)
	default:
		msg = e.File
	}
	return e.Kind.String() + ": " + msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// KindOf zwraca rodzaj błędu ładowania albo 0, jeśli to nie LoadError.
func KindOf(err error) Kind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
