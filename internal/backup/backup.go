// Package backup dumps the survey tables to JSON files, on demand and on a
// cron schedule.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File describes one backup file on disk.
type File struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type dump struct {
	Created    time.Time         `json:"created"`
	Categories []models.Category `json:"categories"`
	Questions  []models.Question `json:"questions"`
	Entries    []models.Entry    `json:"entries"`
}

// Dump writes a full JSON snapshot of categories, questions and entries
// into dir and returns the resulting file.
func Dump(db *gorm.DB, dir string) (File, error) {
	var d dump
	d.Created = time.Now()

	if err := db.Order("id").Find(&d.Categories).Error; err != nil {
		return File{}, fmt.Errorf("dump categories: %w", err)
	}
	if err := db.Order("id").Find(&d.Questions).Error; err != nil {
		return File{}, fmt.Errorf("dump questions: %w", err)
	}
	if err := db.Order("id").Find(&d.Entries).Error; err != nil {
		return File{}, fmt.Errorf("dump entries: %w", err)
	}

	raw, err := json.MarshalIndent(&d, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("marshal backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup-%s-%s.json", d.Created.Format("20060102"), uuid.New().String())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return File{}, fmt.Errorf("write backup: %w", err)
	}

	return File{Name: name, Size: int64(len(raw)), CreatedAt: d.Created}, nil
}

// List returns the backup files in dir, newest first.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "backup-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{Name: e.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	return files, nil
}

// Resolve maps a client-supplied file name to a path inside dir,
// refusing anything that would escape it.
func Resolve(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasPrefix(name, "backup-") {
		return "", fmt.Errorf("invalid backup name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Remove deletes a backup file. Missing files are a no-op.
func Remove(dir, name string) error {
	path, err := Resolve(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
