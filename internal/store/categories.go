package store

import (
	"time"

	"github.com/kth-biblioteket/fragematning/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRow is a category, optionally annotated with its entry count.
type CategoryRow struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	SortOrder  string    `json:"sort_order"`
	CreatedAt  LocalTime `json:"created_at"`
	EntryCount *int64    `json:"entry_count,omitempty"`
}

type CategoryStore struct {
	DB *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{DB: db}
}

// List returns all categories ordered by sort key and name. With withCounts,
// each row carries the number of entries recorded against its questions.
func (s *CategoryStore) List(withCounts bool) ([]CategoryRow, error) {
	var categories []models.Category
	if err := s.DB.Order("sort_order, name").Find(&categories).Error; err != nil {
		return nil, err
	}

	var counts map[uint]int64
	if withCounts {
		var err error
		counts, err = s.entryCounts()
		if err != nil {
			return nil, err
		}
	}

	rows := make([]CategoryRow, 0, len(categories))
	for _, c := range categories {
		row := CategoryRow{
			ID:        c.ID,
			Name:      c.Name,
			SortOrder: c.SortOrder,
			CreatedAt: toLocal(c.CreatedAt),
		}
		if withCounts {
			n := counts[c.ID]
			row.EntryCount = &n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *CategoryStore) entryCounts() (map[uint]int64, error) {
	var results []struct {
		CategoryID uint
		N          int64
	}
	err := s.DB.Table("entries").
		Select("questions.category_id AS category_id, count(*) AS n").
		Joins("JOIN questions ON questions.id = entries.question_id").
		Group("questions.category_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(results))
	for _, r := range results {
		counts[r.CategoryID] = r.N
	}
	return counts, nil
}

// Upsert inserts each category, or updates all supplied fields when the
// primary key already exists.
func (s *CategoryStore) Upsert(rows []models.Category) error {
	for i := range rows {
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = time.Now()
		}
		err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a category and cascades to its questions. Deleting a
// missing id is a no-op.
func (s *CategoryStore) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Category{}, id).Error; err != nil {
			return err
		}
		return tx.Where("category_id = ?", id).Delete(&models.Question{}).Error
	})
}
