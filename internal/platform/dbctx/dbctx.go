package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos fall back to their own *gorm.DB when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// From builds a transactionless Context from a request context.
func From(ctx context.Context) Context {
	return Context{Ctx: ctx}
}
