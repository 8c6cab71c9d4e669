package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const itemColumns = "id, merchant_id, name, description, unit_price, created_at, updated_at"

// ItemRepository implements the ItemRepository interface for SQLite
type ItemRepository struct {
	*BaseRepository[models.Item]
}

// NewItemRepository creates a new SQLite item repository
func NewItemRepository(db DBTX, logger *logrus.Logger) repositories.ItemRepository {
	return &ItemRepository{
		BaseRepository: NewBaseRepository(db, "items", "item", itemColumns, scanItem, logger),
	}
}

func scanItem(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(
		&item.ID,
		&item.MerchantID,
		&item.Name,
		&item.Description,
		&item.UnitPrice,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := item.Validate(); err != nil {
		return repositories.ValidationError("item", err)
	}

	item.CreatedAt = utc(item.CreatedAt)
	item.UpdatedAt = utc(item.UpdatedAt)

	query := `
		INSERT INTO items (merchant_id, name, description, unit_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if item.ID > 0 {
		query = `
		INSERT INTO items (merchant_id, name, description, unit_price, created_at, updated_at, id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(item.ID,
		item.MerchantID,
		item.Name,
		item.Description,
		item.UnitPrice.Minor(),
		item.CreatedAt,
		item.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	item.ID = id
	return nil
}

// GetByMerchantID retrieves the items a merchant sells
func (r *ItemRepository) GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Item, error) {
	return r.selectWhere(ctx, "get_by_merchant_id", "WHERE merchant_id = ?", []interface{}{merchantID})
}
