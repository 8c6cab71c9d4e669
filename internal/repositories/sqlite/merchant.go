package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const merchantColumns = "id, name, created_at, updated_at"

// MerchantRepository implements the MerchantRepository interface for SQLite
type MerchantRepository struct {
	*BaseRepository[models.Merchant]
}

// NewMerchantRepository creates a new SQLite merchant repository
func NewMerchantRepository(db DBTX, logger *logrus.Logger) repositories.MerchantRepository {
	return &MerchantRepository{
		BaseRepository: NewBaseRepository(db, "merchants", "merchant", merchantColumns, scanMerchant, logger),
	}
}

func scanMerchant(row rowScanner) (*models.Merchant, error) {
	merchant := &models.Merchant{}
	err := row.Scan(
		&merchant.ID,
		&merchant.Name,
		&merchant.CreatedAt,
		&merchant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return merchant, nil
}

// Create creates a new merchant
func (r *MerchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	merchant.Name = models.SanitizeString(merchant.Name)
	if err := merchant.Validate(); err != nil {
		return repositories.ValidationError("merchant", err)
	}

	merchant.CreatedAt = utc(merchant.CreatedAt)
	merchant.UpdatedAt = utc(merchant.UpdatedAt)

	query := `INSERT INTO merchants (name, created_at, updated_at) VALUES (?, ?, ?)`
	if merchant.ID > 0 {
		query = `INSERT INTO merchants (name, created_at, updated_at, id) VALUES (?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(merchant.ID,
		merchant.Name,
		merchant.CreatedAt,
		merchant.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	merchant.ID = id
	return nil
}

// Find retrieves merchants matching every supplied filter
func (r *MerchantRepository) Find(ctx context.Context, filters models.MerchantFilters) ([]*models.Merchant, error) {
	var c conditions
	if filters.ID != nil {
		c.add("id = ?", *filters.ID)
	}
	if filters.Name != nil {
		c.add("LOWER(name) = ?", models.NormalizeSearchTerm(*filters.Name))
	}
	c.addDate("created_at", filters.CreatedAt)
	c.addDate("updated_at", filters.UpdatedAt)

	return r.selectWhere(ctx, "find", c.where(), c.args)
}
