package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, body []byte) error {
	args := m.Called(eventType, key, body)
	return args.Error(0)
}

func (m *MockPublisher) published(eventType string) int {
	n := 0
	for _, call := range m.Calls {
		if call.Method == "Publish" && call.Arguments.String(0) == eventType {
			n++
		}
	}
	return n
}

// fixture wires the order and payment services against an in-memory SQLite database.
type fixture struct {
	ctx       context.Context
	store     *repositories.GORMStore
	notifier  *services.NotificationService
	publisher *MockPublisher
	orders    *services.OrderService
	payments  *services.PaymentService
	customer  services.CurrentUser
	other     services.CurrentUser
	admin     services.CurrentUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repositories.NewGORMStore(db)
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier := services.NewNotificationService(store.Notifications())

	f := &fixture{
		ctx:       context.Background(),
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		orders:    services.NewOrderService(store, notifier, publisher, services.DefaultShippingPolicy()),
		payments:  services.NewPaymentService(store, notifier, publisher, "E-Commerce Store"),
	}
	f.customer = f.seedUser(t, "Jane Customer", "jane@example.com", models.RoleUser)
	f.other = f.seedUser(t, "Other Customer", "other@example.com", models.RoleUser)
	f.admin = f.seedUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	return f
}

func (f *fixture) seedUser(t *testing.T, name, email, role string) services.CurrentUser {
	t.Helper()
	user := &models.User{Name: name, Email: email, Password: "hashed", Role: role}
	require.NoError(t, f.store.Users().Create(f.ctx, user))
	return services.CurrentUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

func (f *fixture) seedProduct(t *testing.T, name string, price int64, stock int, status string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Status: status,
		Image:  "/img/" + name + ".png",
	}
	require.NoError(t, f.store.Products().Create(f.ctx, product))
	return product
}

func (f *fixture) addToCart(t *testing.T, user services.CurrentUser, productID string, quantity int) {
	t.Helper()
	_, err := f.store.Carts().Add(f.ctx, user.ID, productID, quantity)
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	product, err := f.store.Products().GetByID(f.ctx, productID)
	require.NoError(t, err)
	return product.Stock
}

func (f *fixture) inbox(t *testing.T, of services.Audience) []models.Notification {
	t.Helper()
	notifications, err := f.notifier.Inbox(f.ctx, of)
	require.NoError(t, err)
	return notifications
}

func (f *fixture) checkout(t *testing.T, method models.PaymentMethod, items ...services.OrderItemInput) *services.CheckoutResult {
	t.Helper()
	result, err := f.orders.CreateOrder(f.ctx, f.customer, services.CreateOrderInput{
		Items:           items,
		ShippingAddress: testAddress(),
		PaymentMethod:   method,
	})
	require.NoError(t, err)
	return result
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Jane Customer",
		Phone:    "0300-1234567",
		Address:  "12 Market Road",
		City:     "Lahore",
	}
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 15, 4, 0, 0, time.UTC)
}
