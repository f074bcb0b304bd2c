package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db    *gorm.DB
	hooks *commitHooks
}

// NewGormStore wraps an opened gorm connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Atomic implements Store. A dropped connection is retried once.
func (s *gormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.hooks != nil {
		return fn(s)
	}

	run := func() error {
		hooks := &commitHooks{}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormStore{db: tx, hooks: hooks})
		})
		if err == nil {
			hooks.run()
		}
		return err
	}

	err := run()
	if errors.Is(err, driver.ErrBadConn) {
		slog.Warn("retrying transaction after bad connection", slog.String("error", err.Error()))
		err = run()
	}
	return err
}

// AfterCommit implements Store.
func (s *gormStore) AfterCommit(fn func()) {
	if s.hooks == nil {
		fn()
		return
	}
	s.hooks.add(fn)
}

// Close implements Store.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.Close()
}

type gormCollection[T any, PT RecordPtr[T]] struct {
	db *gorm.DB
}

func (c *gormCollection[T, PT]) table() string {
	return PT(new(T)).TableName()
}

// Create implements Collection.
func (c *gormCollection[T, PT]) Create(ctx context.Context, rec *T) error {
	stamp(PT(rec).Meta())
	if err := c.db.WithContext(ctx).Create(PT(rec)).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", c.table(), err)
	}
	return nil
}

// GetAll implements Collection.
func (c *gormCollection[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.table(), err)
	}
	return records, nil
}

// GetByID implements Collection.
func (c *gormCollection[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(PT(&rec)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &RecordNotFoundError{Table: c.table(), ID: id}
		}
		return nil, fmt.Errorf("failed to find %s: %w", c.table(), err)
	}
	return &rec, nil
}

// Update implements Collection. The write only lands if the revision read
// is still current.
func (c *gormCollection[T, PT]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	current, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := PT(current).Meta()
	revision, createdAt := meta.Revision, meta.CreatedAt
	if err := mutate(current); err != nil {
		return nil, err
	}
	restamp(PT(current).Meta(), id, createdAt, revision)

	result := c.db.WithContext(ctx).
		Model(PT(current)).
		Where("revision = ?", revision).
		Select("*").
		Updates(PT(current))

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update %s: %w", c.table(), result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update %s %q: %w", c.table(), id, ErrConcurrentUpdate)
	}

	return current, nil
}

// Delete implements Collection.
func (c *gormCollection[T, PT]) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(PT(new(T)))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", c.table(), result.Error)
	}

	if result.RowsAffected == 0 {
		return &RecordNotFoundError{Table: c.table(), ID: id}
	}

	return nil
}

// GetByIndex implements Collection.
func (c *gormCollection[T, PT]) GetByIndex(ctx context.Context, index, value string) ([]T, error) {
	if !hasIndex[T, PT](index) {
		return nil, unknownIndexError(c.table(), index)
	}

	var records []T
	err := c.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: index}, Value: value}).
		Order("created_at ASC, id ASC").
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", c.table(), index, err)
	}

	return records, nil
}
