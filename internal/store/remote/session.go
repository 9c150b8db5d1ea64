package remote

import (
	"context"
	"errors"
	"fmt"

	"retailpos/internal/repository"
	"retailpos/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ClaimSubject is the setting row-level security policies read the caller from.
const ClaimSubject = "request.jwt.claim.sub"

type subjectKey struct{}

// withSubject pins the subject bound by the next session transaction.
func withSubject(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subjectKey{}, id)
}

func subjectFrom(ctx context.Context) string {
	id, _ := ctx.Value(subjectKey{}).(string)
	return id
}

// bindClaims runs first in every session transaction. set_config with
// is_local=true scopes the claim to the transaction. Other dialects have no
// row-level security and skip the call.
func bindClaims(ctx context.Context, tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT set_config(?, ?, true)", ClaimSubject, subjectFrom(ctx)).Error; err != nil {
		return fmt.Errorf("bind session claims: %w", err)
	}
	return nil
}

func newSessionManager(db *gorm.DB) repository.TransactionManager {
	return repository.NewSessionTransactionManager(db, bindClaims)
}

// mapError classifies Postgres integrity violations (SQLSTATE class 23) as
// store.ErrConstraint. Network and policy errors pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%w: %s", store.ErrConstraint, pgErr.Message)
	}
	return err
}
