// Transacciones.
//
// WithTx garantiza que varias operaciones de DB funcionen como una unidad
// atómica: o todas se escriben (COMMIT) o ninguna (ROLLBACK).
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier es la interfaz que satisfacen tanto *sql.DB como *sql.Tx.
//
// Los repositories dependen de esta interfaz: en operación normal reciben el
// pool, dentro de una transacción reciben el tx — mismo código en ambos casos.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx ejecuta fn dentro de una transacción.
//
// fn devuelve nil → COMMIT; devuelve error → ROLLBACK; hace panic → ROLLBACK
// y el panic se relanza. Sin el recover, un panic dejaría la transacción
// abierta y con ella un lock sobre la base.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			_ = tx.Rollback()
			return
		}

		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}
