package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/repository"
)

var _ subscription.ProfileTxRunner = (*TxRunner)(nil)

// TxRunner transacción por mutación. Con una sola conexión abierta las
// transacciones quedan serializadas, que es el bloqueo por sesión que necesitamos.
type TxRunner struct {
	store *Store
}

func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) RunInProfileTx(ctx context.Context, _ string, fn func(repo repository.ProfileRepository) error) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&ProfileRepo{db: tx, now: time.Now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
