package shared

import "context"

// UnitOfWork executes a function inside one transactional boundary.
// Every multi-write business operation (a voucher and its ledger postings,
// a sale posting and its stock/ledger side effects) must run through it so
// that a failure part-way leaves no partial state behind.
//
// Implementations propagate the transaction through the returned context;
// repositories pick it up from there.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
