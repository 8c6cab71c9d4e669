package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const customerColumns = "id, first_name, last_name, created_at, updated_at"

// CustomerRepository implements the CustomerRepository interface for SQLite
type CustomerRepository struct {
	*BaseRepository[models.Customer]
}

// NewCustomerRepository creates a new SQLite customer repository
func NewCustomerRepository(db DBTX, logger *logrus.Logger) repositories.CustomerRepository {
	return &CustomerRepository{
		BaseRepository: NewBaseRepository(db, "customers", "customer", customerColumns, scanCustomer, logger),
	}
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", err)
	}

	customer.CreatedAt = utc(customer.CreatedAt)
	customer.UpdatedAt = utc(customer.UpdatedAt)

	query := `INSERT INTO customers (first_name, last_name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if customer.ID > 0 {
		query = `INSERT INTO customers (first_name, last_name, created_at, updated_at, id) VALUES (?, ?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.CreatedAt,
		customer.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	customer.ID = id
	return nil
}
