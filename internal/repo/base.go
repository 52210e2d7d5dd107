// Package repo holds what the gorm repositories share: a context-bound
// handle and the mapping from storage errors to API errors.
package repo

import (
	"context"
	"errors"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"gorm.io/gorm"
)

// Base is embedded by each domain repository.
type Base struct {
	db *gorm.DB
}

func NewBase(conn *gorm.DB) Base {
	return Base{db: conn}
}

// DB scopes the connection to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx runs fn inside one transaction scoped to ctx.
func (b Base) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// MapNotFound turns a missing row into NOT_FOUND for resource. Typed errors
// pass through and anything else becomes INTERNAL.
func MapNotFound(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	case pkgerrors.As(err) != nil:
		return pkgerrors.As(err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+resource)
}

// MapWriteError reports unique violations as CONFLICT and other insert or
// update failures as INTERNAL.
func MapWriteError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" already exists")
	case pkgerrors.As(err) != nil:
		return pkgerrors.As(err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save "+resource)
}
