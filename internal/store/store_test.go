package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/config"
	"github.com/kth-biblioteket/fragematning/internal/database"
	"github.com/kth-biblioteket/fragematning/internal/filter"
	"github.com/kth-biblioteket/fragematning/internal/models"

	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seed inserts one category with an open question and one question
// restricted to anna and erik.
func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := NewCategoryStore(db).Upsert([]models.Category{
		{ID: 1, Name: "Referens", SortOrder: "1"},
	}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	restricted := "anna,erik"
	if err := NewQuestionStore(db).Upsert([]models.Question{
		{ID: 1, Description: "Hur hittar jag en bok?", CategoryID: 1},
		{ID: 2, Description: "Fjärrlån", CategoryID: 1, User: &restricted},
	}); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)

	// a Tuesday afternoon in ISO week 1
	qd := time.Date(2024, 1, 2, 14, 30, 0, 0, time.Local)
	e := models.Entry{User: "anna", QuestionID: 1, QuestionDate: qd, Type: "Fråga", Location: "Entréplan"}
	if err := entries.Create(&e); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if e.ID == 0 {
		t.Fatalf("create did not assign an id")
	}

	row, err := entries.Get(e.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if row.Question != "Hur hittar jag en bok?" || row.Category != "Referens" {
		t.Errorf("row = %q / %q, want question and category names joined in", row.Question, row.Category)
	}
	if row.Hour != 14 || row.Weekday != 1 || row.Week != 1 || row.Year != 2024 {
		t.Errorf("derived fields = hour %d weekday %d week %d year %d, want 14 1 1 2024",
			row.Hour, row.Weekday, row.Week, row.Year)
	}
	if row.QuestionDate.Format("2006-01-02T15:04:05") != "2024-01-02T14:30:00" {
		t.Errorf("question date = %v", row.QuestionDate)
	}
}

func TestEntryCreate_DefaultQuestionDate(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)

	e := models.Entry{User: "anna", QuestionID: 1, Type: "Fråga", Location: "Entréplan"}
	if err := entries.Create(&e); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if e.QuestionDate.IsZero() {
		t.Errorf("question date was not defaulted")
	}
}

func TestEntryList_Filters(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)

	comment := "bra fråga"
	fixtures := []models.Entry{
		{User: "anna", QuestionID: 1, QuestionDate: time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local), Type: "Fråga", Location: "Entréplan"},
		{User: "anna", QuestionID: 1, QuestionDate: time.Date(2024, 1, 2, 14, 0, 0, 0, time.Local), Type: "Fråga", Location: "Plan 3", Comment: &comment},
		{User: "erik", QuestionID: 1, QuestionDate: time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local), Type: "Bemötande", Location: "Telefon"},
	}
	for i := range fixtures {
		if err := entries.Create(&fixtures[i]); err != nil {
			t.Fatalf("create fixture %d: %v", i, err)
		}
	}

	tests := []struct {
		where string
		want  int
	}{
		{"", 3},
		{"user=anna", 2},
		{"type=Bemötande", 1},
		{"comment<>NULL", 1},
		{"comment=NULL", 2},
		{"hour>=14;weekday=1", 1},
		{"date>=2024-01-03", 1},
		{"location=Plan 3", 1},
	}
	for _, tt := range tests {
		rows, err := entries.List(filter.Parse(tt.where), "")
		if err != nil {
			t.Fatalf("list %q: %v", tt.where, err)
		}
		if len(rows) != tt.want {
			t.Errorf("list %q returned %d rows, want %d", tt.where, len(rows), tt.want)
		}
	}
}

func TestEntryList_UserScope(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)

	fixtures := []models.Entry{
		{User: "anna", QuestionID: 1, QuestionDate: time.Now(), Type: "Fråga", Location: "Entréplan"},
		{User: "anna", QuestionID: 2, QuestionDate: time.Now(), Type: "Fråga", Location: "Entréplan"},
	}
	for i := range fixtures {
		if err := entries.Create(&fixtures[i]); err != nil {
			t.Fatalf("create fixture %d: %v", i, err)
		}
	}

	tests := []struct {
		scope string
		want  int
	}{
		{"", 2},     // no scoping
		{"erik", 2}, // member of the restricted question's user set
		{"anna", 2},
		{"maria", 1}, // only the open question remains visible
	}
	for _, tt := range tests {
		rows, err := entries.List(nil, tt.scope)
		if err != nil {
			t.Fatalf("list scope %q: %v", tt.scope, err)
		}
		if len(rows) != tt.want {
			t.Errorf("list scope %q returned %d rows, want %d", tt.scope, len(rows), tt.want)
		}
	}
}

func TestEntryDelete_MissingIsNoop(t *testing.T) {
	db := testDB(t)
	if err := NewEntryStore(db).Delete(999); err != nil {
		t.Errorf("delete missing entry: %v", err)
	}
}

func TestCategoryUpsert_UpdatesInPlace(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	if err := categories.Upsert([]models.Category{{ID: 5, Name: "Teknik", SortOrder: "2"}}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := categories.Upsert([]models.Category{{ID: 5, Name: "Teknik & IT", SortOrder: "2"}}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := categories.List(false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Teknik & IT" {
		t.Errorf("rows = %+v, want the single renamed category", rows)
	}
}

func TestCategoryList_WithCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)
	for i := 0; i < 3; i++ {
		e := models.Entry{User: "anna", QuestionID: 1, QuestionDate: time.Now(), Type: "Fråga", Location: "Entréplan"}
		if err := entries.Create(&e); err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}

	rows, err := NewCategoryStore(db).List(true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].EntryCount == nil || *rows[0].EntryCount != 3 {
		t.Errorf("rows = %+v, want one category counting 3 entries", rows)
	}
}

func TestCategoryDelete_CascadesToQuestions(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	if err := NewCategoryStore(db).Delete(1); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	questions, err := NewQuestionStore(db).List("", false)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("questions = %+v, want none after the cascade", questions)
	}
}

func TestQuestionUpsert_UnknownCategory(t *testing.T) {
	db := testDB(t)
	err := NewQuestionStore(db).Upsert([]models.Question{{ID: 1, Description: "x", CategoryID: 42}})
	if !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Errorf("upsert with unknown category returned %v, want ErrForeignKeyViolated", err)
	}
}

func TestQuestionList_ScopeAndCounts(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	entries := NewEntryStore(db)
	e := models.Entry{User: "anna", QuestionID: 2, QuestionDate: time.Now(), Type: "Fråga", Location: "Entréplan"}
	if err := entries.Create(&e); err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	questions := NewQuestionStore(db)

	rows, err := questions.List("maria", false)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("scoped rows = %+v, want only the open question", rows)
	}

	rows, err = questions.List("", true)
	if err != nil {
		t.Fatalf("list with counts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want both questions", rows)
	}
	for _, r := range rows {
		if r.EntryCount == nil {
			t.Fatalf("row %d has no entry count", r.ID)
		}
		want := int64(0)
		if r.ID == 2 {
			want = 1
		}
		if *r.EntryCount != want {
			t.Errorf("question %d count = %d, want %d", r.ID, *r.EntryCount, want)
		}
	}
}

func TestQuestionExists(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	questions := NewQuestionStore(db)

	ok, err := questions.Exists(1)
	if err != nil || !ok {
		t.Errorf("Exists(1) = %v, %v; want true", ok, err)
	}
	ok, err = questions.Exists(99)
	if err != nil || ok {
		t.Errorf("Exists(99) = %v, %v; want false", ok, err)
	}
}
