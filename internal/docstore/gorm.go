package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the row backing one document in SQL databases.
type Record struct {
	Collection string            `gorm:"type:varchar(64);primaryKey"`
	ID         string            `gorm:"type:varchar(128);primaryKey"`
	Data       datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time         `gorm:"index"`
	UpdatedAt  time.Time
}

func (Record) TableName() string {
	return "documents"
}

// GormStore keeps documents as JSON rows of a single table. It runs on any
// gorm dialect that gorm.io/datatypes can query (postgres, sqlite, mysql).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the documents table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Record{})
}

func (s *GormStore) Set(ctx context.Context, collection, id string, doc Document) error {
	now := time.Now().UTC()
	rec := Record{
		Collection: collection,
		ID:         id,
		Data:       datatypes.JSONMap(doc),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := getDB(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	var rec Record
	err := lockingDB(ctx, s.db).First(&rec, "collection = ? AND id = ?", collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	snap := toSnapshot(rec)
	return &snap, nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, fields Document) error {
	return runInTx(ctx, s.db, func(txCtx context.Context) error {
		return s.update(txCtx, collection, id, fields)
	})
}

func (s *GormStore) update(ctx context.Context, collection, id string, fields Document) error {
	db := getDB(ctx, s.db)

	var rec Record
	err := lockingDB(ctx, s.db).First(&rec, "collection = ? AND id = ?", collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", collection, id, err)
	}

	merged := merge(Document(rec.Data), fields)
	err = db.Model(&Record{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       datatypes.JSONMap(merged),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	err := getDB(ctx, s.db).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	query, prefixes := s.filtered(ctx, collection, q.Filters)

	order := "created_at ASC, id ASC"
	if q.Newest {
		order = "created_at DESC, id DESC"
	}
	query = query.Order(order)

	// Prefix filters are re-checked in Go (LIKE is case-insensitive on
	// some dialects), so paging must happen after that.
	if len(prefixes) == 0 {
		if q.Offset > 0 {
			query = query.Offset(q.Offset)
		}
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
	}

	var recs []Record
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	snaps := make([]Snapshot, 0, len(recs))
	for _, rec := range recs {
		if !matchesPrefixes(rec.Data, prefixes) {
			continue
		}
		snaps = append(snaps, toSnapshot(rec))
	}

	if len(prefixes) > 0 {
		snaps = window(snaps, q.Offset, q.Limit)
	}
	return snaps, nil
}

func (s *GormStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	query, prefixes := s.filtered(ctx, collection, filters)
	if len(prefixes) > 0 {
		snaps, err := s.Find(ctx, collection, Query{Filters: filters})
		if err != nil {
			return 0, err
		}
		return int64(len(snaps)), nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return total, nil
}

func (s *GormStore) Commit(ctx context.Context, writes ...Write) error {
	for _, w := range writes {
		if err := validateWrite(w); err != nil {
			return err
		}
	}

	return runInTx(ctx, s.db, func(txCtx context.Context) error {
		for _, w := range writes {
			var err error
			switch w.Kind {
			case WriteSet:
				err = s.Set(txCtx, w.Collection, w.ID, w.Data)
			case WriteUpdate:
				err = s.update(txCtx, w.Collection, w.ID, w.Data)
			case WriteDelete:
				err = s.Delete(txCtx, w.Collection, w.ID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return runInTx(ctx, s.db, fn)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) filtered(ctx context.Context, collection string, filters []Filter) (*gorm.DB, []Filter) {
	query := getDB(ctx, s.db).Model(&Record{}).Where("collection = ?", collection)

	var prefixes []Filter
	for _, f := range filters {
		switch f.Op {
		case OpPrefix:
			prefix, _ := f.Value.(string)
			query = query.Where(datatypes.JSONQuery("data").Likes(escapeLike(prefix)+"%", f.Field))
			prefixes = append(prefixes, f)
		default:
			query = query.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
		}
	}
	return query, prefixes
}

func matchesPrefixes(data datatypes.JSONMap, prefixes []Filter) bool {
	for _, f := range prefixes {
		value, _ := data[f.Field].(string)
		prefix, _ := f.Value.(string)
		if !strings.HasPrefix(value, prefix) {
			return false
		}
	}
	return true
}

// escapeLike turns '%' into the single-character wildcard. The pattern may
// over-match; the Go-side prefix check keeps results exact.
func escapeLike(s string) string {
	return strings.ReplaceAll(s, "%", "_")
}

func toSnapshot(rec Record) Snapshot {
	data := Document(rec.Data)
	if data == nil {
		data = Document{}
	}
	return Snapshot{ID: rec.ID, Data: data, CreatedAt: rec.CreatedAt}
}
