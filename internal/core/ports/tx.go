package ports

import "context"

// TxManager runs fn inside a single multi-document transaction. Every
// repository call made with the context passed to fn joins the transaction;
// returning an error aborts it. Implementations may retry fn on transient
// transaction errors, so fn must be safe to re-run.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
