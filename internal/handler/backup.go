package handler

import (
	"log"
	"net/http"

	"github.com/kth-biblioteket/fragematning/internal/backup"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BackupHandler exposes on-demand database dumps to admins.
type BackupHandler struct {
	DB  *gorm.DB
	Dir string
}

func NewBackupHandler(db *gorm.DB, dir string) *BackupHandler {
	return &BackupHandler{DB: db, Dir: dir}
}

// Create writes a new JSON dump and returns its metadata.
func (h *BackupHandler) Create(c *gin.Context) {
	f, err := backup.Dump(h.DB, h.Dir)
	if err != nil {
		log.Printf("create backup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, f)
}

// List returns the existing backup files, newest first.
func (h *BackupHandler) List(c *gin.Context) {
	files, err := backup.List(h.Dir)
	if err != nil {
		log.Printf("list backups: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, files)
}

// Download streams one backup file as an attachment.
func (h *BackupHandler) Download(c *gin.Context) {
	name := c.Param("name")
	path, err := backup.Resolve(h.Dir, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid backup name"})
		return
	}
	c.FileAttachment(path, name)
}

// Delete removes one backup file; a missing file succeeds.
func (h *BackupHandler) Delete(c *gin.Context) {
	if err := backup.Remove(h.Dir, c.Param("name")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid backup name"})
		return
	}
	c.String(http.StatusOK, "")
}
