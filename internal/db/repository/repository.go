// Package repository provides gorm backed data access for restopos entities.
//
// Relationships are never loaded implicitly: every finder takes the names of
// the associations to preload. Not found lookups return apperror.ErrNotFound
// and unique index violations return apperror.ErrConflict.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/restopos/restopos/internal/apperror"
)

// ErrDBNil is returned when a repository is built without a database connection.
var ErrDBNil = errors.New("database connection is nil")

// Repository is the generic data access object for entity T.
type Repository[T any] struct {
	db     *gorm.DB
	entity string
}

// New returns a repository for T. entity names T in error messages.
func New[T any](db *gorm.DB, entity string) *Repository[T] {
	return &Repository[T]{db: db, entity: entity}
}

// Entity returns the entity name used in error messages.
func (r *Repository[T]) Entity() string {
	return r.entity
}

func (r *Repository[T]) conn(ctx context.Context, preloads ...string) (*gorm.DB, error) {
	if r == nil || r.db == nil {
		return nil, ErrDBNil
	}

	tx := r.db.WithContext(ctx)
	for _, p := range preloads {
		tx = tx.Preload(p)
	}

	return tx, nil
}

// FindByID loads the entity with the given primary key.
func (r *Repository[T]) FindByID(ctx context.Context, id any, preloads ...string) (*T, error) {
	tx, err := r.conn(ctx, preloads...)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := tx.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, r.translate(err)
	}

	return &entity, nil
}

// FindBy loads the first entity whose column equals value.
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any, preloads ...string) (*T, error) {
	tx, err := r.conn(ctx, preloads...)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(&entity).Error; err != nil {
		return nil, r.translate(err)
	}

	return &entity, nil
}

// ExistsBy reports whether any entity has column equal to value.
func (r *Repository[T]) ExistsBy(ctx context.Context, column string, value any) (bool, error) {
	tx, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := tx.Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", r.entity, column, err)
	}

	return count > 0, nil
}

// FindAll returns one page of all entities ordered by id.
func (r *Repository[T]) FindAll(ctx context.Context, pr PageRequest, preloads ...string) (Page[T], error) {
	return r.FindPage(ctx, pr, nil, preloads...)
}

// FindAllBy returns one page of the entities whose column equals value.
func (r *Repository[T]) FindAllBy(
	ctx context.Context, column string, value any, pr PageRequest, preloads ...string,
) (Page[T], error) {
	return r.FindPage(ctx, pr, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}, preloads...)
}

// FindByContaining returns one page of the entities whose column contains substring,
// ignoring case.
func (r *Repository[T]) FindByContaining(
	ctx context.Context, column, substring string, pr PageRequest, preloads ...string,
) (Page[T], error) {
	return r.FindPage(ctx, pr, Containing(column, substring), preloads...)
}

// FindPage returns one page of the entities matching scope. A nil scope matches all.
func (r *Repository[T]) FindPage(
	ctx context.Context, pr PageRequest, scope func(*gorm.DB) *gorm.DB, preloads ...string,
) (Page[T], error) {
	pr = pr.Normalize()

	tx, err := r.conn(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	query := tx.Model(new(T))
	if scope != nil {
		query = query.Scopes(scope)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("failed to count %s: %w", r.entity, err)
	}

	items := make([]T, 0, pr.Size)
	if total > 0 {
		find := tx
		for _, p := range preloads {
			find = find.Preload(p)
		}

		if scope != nil {
			find = find.Scopes(scope)
		}

		if err := find.Order("id").Offset(pr.Offset()).Limit(pr.Size).Find(&items).Error; err != nil {
			return Page[T]{}, fmt.Errorf("failed to list %s: %w", r.entity, err)
		}
	}

	return NewPage(items, pr, total), nil
}

// Create inserts entity. Associations are never written along with it.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	tx, err := r.conn(ctx)
	if err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
		return r.translate(err)
	}

	return nil
}

// Save updates all columns of entity. Associations are never written along with it.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	tx, err := r.conn(ctx)
	if err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.translate(err)
	}

	return nil
}

// Delete removes the entity with the given primary key.
func (r *Repository[T]) Delete(ctx context.Context, id any) error {
	tx, err := r.conn(ctx)
	if err != nil {
		return err
	}

	result := tx.Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return r.translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return apperror.NotFound(r.entity)
	}

	return nil
}

// translate maps store errors to the apperror kinds.
func (r *Repository[T]) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(r.entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s violates a unique constraint", apperror.ErrConflict, r.entity)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Domain("%s is still referenced or references a missing entity", r.entity)
	default:
		return fmt.Errorf("%s: %w", r.entity, err)
	}
}

// Containing is a scope matching rows whose column contains substring, ignoring case.
func Containing(column, substring string) func(*gorm.DB) *gorm.DB {
	return ContainingAny(substring, column)
}

// ContainingAny is a scope matching rows where any of columns contains substring, ignoring case.
func ContainingAny(substring string, columns ...string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(substring)) + "%"

	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))

	for _, c := range columns {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", quoteColumn(c)))
		args = append(args, pattern)
	}

	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(strings.Join(conds, " OR "), args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// quoteColumn keeps only identifier characters, since column names are
// interpolated into SQL.
func quoteColumn(column string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		default:
			return -1
		}
	}, column)
}
