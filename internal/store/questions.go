package store

import (
	"errors"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRow is a question joined with its category's name, optionally
// annotated with its entry count.
type QuestionRow struct {
	ID          uint      `json:"id"`
	User        *string   `json:"user"`
	Description string    `json:"description"`
	Info        *string   `json:"info"`
	Requires    *string   `json:"requires"`
	CategoryID  uint      `json:"categoryId"`
	Category    string    `json:"category"`
	CreatedAt   LocalTime `json:"created_at"`
	EntryCount  *int64    `json:"entry_count,omitempty"`
}

type questionScan struct {
	ID          uint
	User        *string
	Description string
	Info        *string
	Requires    *string
	CategoryID  uint
	Category    string
	CreatedAt   time.Time
}

type QuestionStore struct {
	DB *gorm.DB
}

func NewQuestionStore(db *gorm.DB) *QuestionStore {
	return &QuestionStore{DB: db}
}

// List returns questions joined with their categories, in form order.
// With scopeUser set, questions restricted to other users are filtered out.
func (s *QuestionStore) List(scopeUser string, withCounts bool) ([]QuestionRow, error) {
	q := s.DB.Table("questions").
		Select(`questions.id AS id, questions.user AS user,
			questions.description AS description, questions.info AS info,
			questions.requires AS requires, questions.created_at AS created_at,
			categories.id AS category_id, categories.name AS category`).
		Joins("JOIN categories ON categories.id = questions.category_id").
		Order("categories.sort_order, categories.name, questions.description")
	if scopeUser != "" {
		q = q.Where(userScopeCond, scopeUser)
	}

	var scans []questionScan
	if err := q.Scan(&scans).Error; err != nil {
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

	rows := make([]QuestionRow, 0, len(scans))
	for _, sc := range scans {
		row := QuestionRow{
			ID:          sc.ID,
			User:        sc.User,
			Description: sc.Description,
			Info:        sc.Info,
			Requires:    sc.Requires,
			CategoryID:  sc.CategoryID,
			Category:    sc.Category,
			CreatedAt:   toLocal(sc.CreatedAt),
		}
		if withCounts {
			n := counts[sc.ID]
			row.EntryCount = &n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *QuestionStore) entryCounts() (map[uint]int64, error) {
	var results []struct {
		QuestionID uint
		N          int64
	}
	err := s.DB.Model(&models.Entry{}).
		Select("question_id, count(*) AS n").
		Group("question_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(results))
	for _, r := range results {
		counts[r.QuestionID] = r.N
	}
	return counts, nil
}

// Exists reports whether a question id is present. Entries must always
// reference an existing question; this is the application-level check.
func (s *QuestionStore) Exists(id uint) (bool, error) {
	err := s.DB.Select("id").Take(&models.Question{}, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts each question, or updates all supplied fields when the
// primary key already exists. The category reference must exist.
func (s *QuestionStore) Upsert(rows []models.Question) error {
	for i := range rows {
		var n int64
		if err := s.DB.Model(&models.Category{}).Where("id = ?", rows[i].CategoryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrForeignKeyViolated
		}
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

// Delete removes a question by id; missing ids are a no-op.
func (s *QuestionStore) Delete(id uint) error {
	return s.DB.Delete(&models.Question{}, id).Error
}
