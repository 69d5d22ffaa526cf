// Package store holds the gorm-backed queries behind the HTTP handlers.
// Timestamps are stored as instants and projected to the server's local
// wall clock exactly once, when rows are shaped for presentation.
package store

import (
	"time"

	"github.com/kth-biblioteket/fragematning/internal/filter"
	"github.com/kth-biblioteket/fragematning/internal/models"

	"gorm.io/gorm"
)

// LocalTime renders as local wall-clock time without an offset,
// e.g. "2025-03-01T14:30:00". This is the only place instants become
// user-facing times.
type LocalTime struct {
	time.Time
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

func toLocal(t time.Time) LocalTime {
	return LocalTime{t.In(time.Local)}
}

// EntryRow is an entry joined with its question and category, enriched with
// the time fields the reports break down on. Hour is 0-23, Weekday 0=Monday,
// Week is the ISO week number, Year the calendar year; all derived from
// QuestionDate in local time.
type EntryRow struct {
	ID           uint      `json:"id"`
	User         string    `json:"user"`
	QuestionID   uint      `json:"questionId"`
	Question     string    `json:"question"`
	Info         *string   `json:"info"`
	CategoryID   uint      `json:"categoryId"`
	Category     string    `json:"category"`
	Type         string    `json:"type"`
	Location     string    `json:"location"`
	Comment      *string   `json:"comment"`
	QuestionDate LocalTime `json:"question_date"`
	CreatedAt    LocalTime `json:"created_at"`
	Hour         int       `json:"hour"`
	Weekday      int       `json:"weekday"`
	Week         int       `json:"week"`
	Year         int       `json:"year"`
}

type entryScan struct {
	ID           uint
	User         string
	QuestionID   uint
	Question     string
	Info         *string
	CategoryID   uint
	Category     string
	Type         string
	Location     string
	Comment      *string
	QuestionDate time.Time
	CreatedAt    time.Time
}

const entrySelect = `entries.id AS id, entries.user AS user,
	entries.question_id AS question_id, entries.type AS type,
	entries.location AS location, entries.comment AS comment,
	entries.question_date AS question_date, entries.created_at AS created_at,
	questions.description AS question, questions.info AS info,
	categories.id AS category_id, categories.name AS category`

// userScopeCond keeps rows whose question is unrestricted or whose
// comma-separated user set contains the given username.
const userScopeCond = `(questions.user IS NULL OR ',' || questions.user || ',' LIKE '%,' || ? || ',%')`

// EntryStore runs the joined entry queries backing the reporting views.
type EntryStore struct {
	DB *gorm.DB
}

func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{DB: db}
}

func (s *EntryStore) base() *gorm.DB {
	return s.DB.Table("entries").
		Select(entrySelect).
		Joins("JOIN questions ON questions.id = entries.question_id").
		Joins("JOIN categories ON categories.id = questions.category_id")
}

// List returns entries matching the parsed filter clauses, optionally scoped
// to what scopeUser is allowed to see. Column-backed clauses go into the SQL
// as bind parameters; clauses on hour/weekday are matched against the
// projected rows, since those fields only exist after local-time projection.
func (s *EntryStore) List(clauses []filter.Clause, scopeUser string) ([]EntryRow, error) {
	q := s.base()
	if scopeUser != "" {
		q = q.Where(userScopeCond, scopeUser)
	}

	var derived []filter.Clause
	for _, cl := range clauses {
		if cl.Derived() {
			derived = append(derived, cl)
			continue
		}
		if cond, args, ok := cl.SQL(); ok {
			q = q.Where(cond, args...)
		}
	}

	var scans []entryScan
	if err := q.Order("entries.id").Scan(&scans).Error; err != nil {
		return nil, err
	}

	rows := make([]EntryRow, 0, len(scans))
	for i := range scans {
		row := project(&scans[i])
		if matchDerived(derived, row) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Get returns a single enriched row by entry id.
func (s *EntryStore) Get(id uint) (EntryRow, error) {
	var scan entryScan
	if err := s.base().Where("entries.id = ?", id).Take(&scan).Error; err != nil {
		return EntryRow{}, err
	}
	return project(&scan), nil
}

// Create inserts a new entry. QuestionDate defaults to now when the client
// did not supply one.
func (s *EntryStore) Create(e *models.Entry) error {
	if e.QuestionDate.IsZero() {
		e.QuestionDate = time.Now()
	}
	return s.DB.Create(e).Error
}

// Delete removes an entry by id. A missing id affects zero rows and is not
// an error.
func (s *EntryStore) Delete(id uint) error {
	return s.DB.Delete(&models.Entry{}, id).Error
}

func project(scan *entryScan) EntryRow {
	qd := scan.QuestionDate.In(time.Local)
	_, week := qd.ISOWeek()
	return EntryRow{
		ID:           scan.ID,
		User:         scan.User,
		QuestionID:   scan.QuestionID,
		Question:     scan.Question,
		Info:         scan.Info,
		CategoryID:   scan.CategoryID,
		Category:     scan.Category,
		Type:         scan.Type,
		Location:     scan.Location,
		Comment:      scan.Comment,
		QuestionDate: LocalTime{qd},
		CreatedAt:    toLocal(scan.CreatedAt),
		Hour:         qd.Hour(),
		Weekday:      (int(qd.Weekday()) + 6) % 7,
		Week:         week,
		Year:         qd.Year(),
	}
}

func matchDerived(clauses []filter.Clause, row EntryRow) bool {
	for _, cl := range clauses {
		if !cl.MatchDerived(row.Hour, row.Weekday) {
			return false
		}
	}
	return true
}
