package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoDuel   = errors.New("no duel possible")
)

// ValidationError: input mal formado (fecha, rango, cantidad de args). Se corrige reenviando.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: username desconocido. No se reintenta.
type NotFoundError struct {
	Kind     string // fighter | candidate
	Username string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Username)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
