package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded: la escritura superaría la cuota del namespace.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValue es el equivalente server-side de localStorage: valores de texto por
// clave, aislados por namespace (un usuario, o "local" sin auth).
//
// GetItem devuelve ok=false si la clave no existe.
type KeyValue interface {
	GetItem(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, namespace, key, value string) error
	RemoveItem(ctx context.Context, namespace, key string) error
}
