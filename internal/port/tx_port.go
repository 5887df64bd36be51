package port

import "context"

// Repositories are bound to one transaction.
type Repositories interface {
	Carts() CartRepository
	Orders() OrderRepository
	Products() ProductRepository
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
