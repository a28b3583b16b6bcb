package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/restopos/restopos/internal/apperror"
)

// Key is a composite key of two ids. Implementations must be comparable so
// that equality and map hashing cover both components.
type Key interface {
	comparable
	Left() uint64
	Right() uint64
}

// JoinTable manages the rows of an association table with key type K and row type T.
type JoinTable[K Key, T any] struct {
	db          *gorm.DB
	entity      string
	leftColumn  string
	rightColumn string
	newRow      func(K) T
	keyOf       func(T) K
}

// NewJoinTable returns the association table for rows of type T.
func NewJoinTable[K Key, T any](
	db *gorm.DB, entity, leftColumn, rightColumn string, newRow func(K) T, keyOf func(T) K,
) *JoinTable[K, T] {
	return &JoinTable[K, T]{
		db:          db,
		entity:      entity,
		leftColumn:  leftColumn,
		rightColumn: rightColumn,
		newRow:      newRow,
		keyOf:       keyOf,
	}
}

func (j *JoinTable[K, T]) conn(ctx context.Context) (*gorm.DB, error) {
	if j == nil || j.db == nil {
		return nil, ErrDBNil
	}

	return j.db.WithContext(ctx), nil
}

func (j *JoinTable[K, T]) where(tx *gorm.DB, k K) *gorm.DB {
	return tx.Where(j.leftColumn+" = ? AND "+j.rightColumn+" = ?", k.Left(), k.Right())
}

// Exists reports whether the row for k is present.
func (j *JoinTable[K, T]) Exists(ctx context.Context, k K) (bool, error) {
	tx, err := j.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := j.where(tx.Model(new(T)), k).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", j.entity, err)
	}

	return count > 0, nil
}

// Assign inserts the row for k. Assigning an existing key is a conflict.
func (j *JoinTable[K, T]) Assign(ctx context.Context, k K) (*T, error) {
	exists, err := j.Exists(ctx, k)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, apperror.Conflict(j.entity, "key", fmt.Sprintf("%d/%d", k.Left(), k.Right()))
	}

	tx, err := j.conn(ctx)
	if err != nil {
		return nil, err
	}

	row := j.newRow(k)
	if err := tx.Create(&row).Error; err != nil {
		return nil, New[T](j.db, j.entity).translate(err)
	}

	return &row, nil
}

// Revoke deletes the row for k.
func (j *JoinTable[K, T]) Revoke(ctx context.Context, k K) error {
	tx, err := j.conn(ctx)
	if err != nil {
		return err
	}

	result := j.where(tx, k).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to revoke %s: %w", j.entity, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperror.NotFound(j.entity)
	}

	return nil
}

// Keys returns the keys of all rows whose left id is left.
func (j *JoinTable[K, T]) Keys(ctx context.Context, left uint64) ([]K, error) {
	tx, err := j.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := tx.Where(j.leftColumn+" = ?", left).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", j.entity, err)
	}

	keys := make([]K, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, j.keyOf(row))
	}

	return keys, nil
}

// RightsOf returns the right ids associated with left.
func (j *JoinTable[K, T]) RightsOf(ctx context.Context, left uint64) ([]uint64, error) {
	return j.pluck(ctx, j.rightColumn, j.leftColumn, left)
}

// LeftsOf returns the left ids associated with right.
func (j *JoinTable[K, T]) LeftsOf(ctx context.Context, right uint64) ([]uint64, error) {
	return j.pluck(ctx, j.leftColumn, j.rightColumn, right)
}

func (j *JoinTable[K, T]) pluck(ctx context.Context, column, by string, id uint64) ([]uint64, error) {
	tx, err := j.conn(ctx)
	if err != nil {
		return nil, err
	}

	ids := []uint64{}
	if err := tx.Model(new(T)).Where(by+" = ?", id).Order(column).Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", j.entity, err)
	}

	return ids, nil
}
