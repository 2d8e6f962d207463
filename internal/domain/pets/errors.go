package pets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")

	// ErrConfirmationMismatch: el token no corresponde a la solicitud de borrado pendiente.
	ErrConfirmationMismatch = errors.New("delete confirmation mismatch")

	// ErrStoreUnavailable: no se pudo leer la colección guardada; no se escribe nada.
	ErrStoreUnavailable = errors.New("saved pets unavailable")
)

// ValidationError: entrada inválida o incompleta. La operación no cambió nada.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError: update/remove/get sobre un id inexistente.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pet %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StorageError: falló la escritura al backend. El cambio en memoria se mantuvo,
// la durabilidad no está garantizada.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage: " + e.Message
	}
	return fmt.Sprintf("storage: %s: %v", e.Message, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DecodeError: lo persistido no se pudo decodificar. Load lo registra y sigue
// con una colección vacía.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", StorageKey, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func isStorageError(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr)
}

func isValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
