package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-party/internal/ports/storage"
)

// KV implementa storage.KeyValue sobre la tabla kv_items.
type KV struct {
	db     *sql.DB
	driver string
	quota  int64
	now    func() time.Time
}

// NewKV espera el esquema ya migrado (ver Migrate). quota limita el tamaño de
// cada valor en bytes; 0 = sin límite.
func NewKV(db *sql.DB, driver string, quota int64) *KV {
	return &KV{
		db:     db,
		driver: driver,
		quota:  quota,
		now:    time.Now,
	}
}

var _ storage.KeyValue = (*KV)(nil)

func (r *KV) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT value
		FROM kv_items
		WHERE namespace = $1 AND item_key = $2
	`), namespace, key)

	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *KV) SetItem(ctx context.Context, namespace, key, value string) error {
	if r.quota > 0 && int64(len(value)) > r.quota {
		return storage.ErrQuotaExceeded
	}

	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO kv_items (namespace, item_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, item_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), namespace, key, value, r.now().UTC())
	return err
}

func (r *KV) RemoveItem(ctx context.Context, namespace, key string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		DELETE FROM kv_items
		WHERE namespace = $1 AND item_key = $2
	`), namespace, key)
	return err
}

// Las queries se escriben con $n (Postgres); SQLite acepta ?n con la misma numeración.
func (r *KV) rebind(q string) string {
	if r.driver != DriverSQLite {
		return q
	}
	return strings.ReplaceAll(q, "$", "?")
}
