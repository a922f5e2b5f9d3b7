package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"

	"github.com/museumaceh/baservice/internal/domain"
)

// Store is the only path to the backing store. Every method issues exactly
// one statement against one table; none of them opens a transaction. Callers
// that need multi-statement consistency must sequence their own writes and
// compensate on failure.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Query describes a filtered, ordered, paginated read of one table.
// Where keys and the column names are supplied by the entity repositories
// from closed allow-lists, never from raw request input.
type Query struct {
	Model        any
	Where        map[string]any
	SearchColumn string
	SearchText   string
	OrderColumn  string
	Ascending    bool
	Offset       int
	Limit        int
	Preloads     []string
}

// Insert writes a single row.
func (s *Store) Insert(ctx context.Context, value any) error {
	return translate(s.db.WithContext(ctx).Create(value).Error)
}

// InsertMany writes all rows in one multi-row insert statement.
func (s *Store) InsertMany(ctx context.Context, values any) error {
	return translate(s.db.WithContext(ctx).Create(values).Error)
}

// UpdateByID applies patch to the row with the given id. A missing row is
// reported as NotFoundError.
func (s *Store) UpdateByID(ctx context.Context, model any, id string, patch map[string]any) error {
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "record"}
	}
	return nil
}

// DeleteByID removes the row with the given id. A missing row is reported as
// NotFoundError.
func (s *Store) DeleteByID(ctx context.Context, model any, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "record"}
	}
	return nil
}

// FindByID loads one row into dest, following the given preload associations.
func (s *Store) FindByID(ctx context.Context, dest any, id string, preloads ...string) error {
	tx := s.db.WithContext(ctx)
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	return translate(tx.Take(dest, "id = ?", id).Error)
}

// FindOne loads the first row matching the exact-match conditions into dest.
func (s *Store) FindOne(ctx context.Context, dest any, where map[string]any) error {
	tx := s.db.WithContext(ctx)
	for col, v := range where {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
	}
	return translate(tx.Take(dest).Error)
}

// Count returns the number of rows matching the exact-match conditions.
func (s *Store) Count(ctx context.Context, model any, where map[string]any) (int64, error) {
	tx := s.db.WithContext(ctx).Model(model)
	for col, v := range where {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// Exists reports whether any row has the given value in col, optionally
// excluding one id (for update-time uniqueness checks). The check is
// advisory: it races with concurrent writers, and the store's own unique
// constraint stays the authoritative signal.
func (s *Store) Exists(ctx context.Context, model any, col string, value any, excludeID string) (bool, error) {
	tx := s.db.WithContext(ctx).Model(model).Where(fmt.Sprintf("%s = ?", col), value)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return false, translate(err)
	}
	return total > 0, nil
}

// Find runs q, loading the page of rows into dest and returning the total
// number of matching rows before the range was applied.
func (s *Store) Find(ctx context.Context, dest any, q Query) (int64, error) {
	tx := s.db.WithContext(ctx).Model(q.Model)

	for col, v := range q.Where {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
	}
	if q.SearchColumn != "" && q.SearchText != "" {
		tx = tx.Where(fmt.Sprintf("%s ILIKE ?", q.SearchColumn), "%"+q.SearchText+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, translate(err)
	}

	if q.OrderColumn != "" {
		dir := "DESC"
		if q.Ascending {
			dir = "ASC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", q.OrderColumn, dir))
	}
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}
	for _, p := range q.Preloads {
		tx = tx.Preload(p)
	}

	if err := tx.Find(dest).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// translate maps store-level failures onto the domain taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundError{Resource: "record"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return domain.StoreUnavailableError{Cause: err}
	}
	return err
}
