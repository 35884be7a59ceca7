package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that take part in a single unit of work.
type Store interface {
	Products() ProductRepository
	Users() UserRepository
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Notifications() NotificationRepository
	Reviews() ReviewRepository
	// Transaction runs fn against a Store bound to one database transaction.
	// Any error returned by fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is a GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }

func (s *GORMStore) Users() UserRepository { return NewGORMUserRepository(s.db) }

func (s *GORMStore) Carts() CartRepository { return NewGORMCartRepository(s.db) }

func (s *GORMStore) Orders() OrderRepository { return NewGORMOrderRepository(s.db) }

func (s *GORMStore) Payments() PaymentRepository { return NewGORMPaymentRepository(s.db) }

func (s *GORMStore) Notifications() NotificationRepository {
	return NewGORMNotificationRepository(s.db)
}

func (s *GORMStore) Reviews() ReviewRepository { return NewGORMReviewRepository(s.db) }

// Transaction wraps fn in gorm's transaction helper.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
