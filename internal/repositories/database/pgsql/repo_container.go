package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgsql-backed repositories. The order
// repository receives the product repository as its stock manager so order
// transactions and product CRUD share one locking protocol.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(db)
	return &portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(db),
		SessionRepo: newPgxSessionRepository(db),
		ProductRepo: productRepo,
		OrderRepo:   newPgxOrderRepository(db, productRepo),
	}
}
