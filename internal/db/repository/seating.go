package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/db/models"
)

// Tables is the repository of dining tables.
type Tables struct {
	*Repository[models.Table]
}

// NewTables returns the table repository.
func NewTables(db *gorm.DB) *Tables {
	return &Tables{Repository: New[models.Table](db, "table")}
}

// FindByTableNumber loads the table with the given number.
func (r *Tables) FindByTableNumber(ctx context.Context, number int) (*models.Table, error) {
	return r.FindBy(ctx, "table_number", number)
}

// ExistsByTableNumber reports whether the table number is taken.
func (r *Tables) ExistsByTableNumber(ctx context.Context, number int) (bool, error) {
	return r.ExistsBy(ctx, "table_number", number)
}

// FindByStatus returns one page of the tables in a status.
func (r *Tables) FindByStatus(
	ctx context.Context, status models.TableStatus, pr PageRequest,
) (Page[models.Table], error) {
	return r.FindAllBy(ctx, "status", string(status), pr)
}
