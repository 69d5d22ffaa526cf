package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/config"
	"github.com/kth-biblioteket/fragematning/internal/filter"
	"github.com/kth-biblioteket/fragematning/internal/models"
	"github.com/kth-biblioteket/fragematning/internal/realtime"
	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
)

// EntryHandler serves the entries listing, creation and undo.
type EntryHandler struct {
	Store     *store.EntryStore
	Questions *store.QuestionStore
	Hub       *realtime.Hub
	Cfg       *config.Config
}

func NewEntryHandler(s *store.EntryStore, qs *store.QuestionStore, hub *realtime.Hub, cfg *config.Config) *EntryHandler {
	return &EntryHandler{Store: s, Questions: qs, Hub: hub, Cfg: cfg}
}

type createEntryReq struct {
	User         string  `json:"user" binding:"required"`
	Question     uint    `json:"question" binding:"required"`
	QuestionDate string  `json:"question_date"`
	Type         string  `json:"type" binding:"required"`
	Location     string  `json:"location" binding:"required"`
	Comment      *string `json:"comment"`
}

var questionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// List returns entries matching ?where= and ?user=, either as JSON rows or,
// with ?format=csv / ?format=xlsx, as a downloadable document.
func (h *EntryHandler) List(c *gin.Context) {
	clauses := filter.Parse(c.Query("where"))
	rows, err := h.Store.List(clauses, c.Query("user"))
	if err != nil {
		log.Printf("list entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	switch c.Query("format") {
	case "csv":
		writeCSV(c, rows, h.Cfg.App.CSVFilename)
	case "xlsx":
		writeXLSX(c, rows, h.Cfg.App.CSVFilename)
	default:
		c.JSON(http.StatusOK, rows)
	}
}

// Create records a new entry and notifies connected dashboards. The enriched
// row is returned so the client can render it without a second query.
func (h *EntryHandler) Create(c *gin.Context) {
	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	exists, err := h.Questions.Exists(req.Question)
	if err != nil {
		log.Printf("check question %d: %v", req.Question, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown question"})
		return
	}

	var questionDate time.Time
	if req.QuestionDate != "" {
		questionDate, err = parseQuestionDate(req.QuestionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid question_date"})
			return
		}
	}

	entry := models.Entry{
		User:         req.User,
		QuestionID:   req.Question,
		QuestionDate: questionDate,
		Type:         req.Type,
		Location:     req.Location,
		Comment:      req.Comment,
	}
	if err := h.Store.Create(&entry); err != nil {
		log.Printf("create entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	row, err := h.Store.Get(entry.ID)
	if err != nil {
		log.Printf("reload entry %d: %v", entry.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	h.Hub.Broadcast()
	c.JSON(http.StatusOK, row)
}

// Undo deletes an entry by id. Deleting a missing id affects zero rows and
// still succeeds.
func (h *EntryHandler) Undo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	if err := h.Store.Delete(uint(id)); err != nil {
		log.Printf("undo entry %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.String(http.StatusOK, "")
}

func parseQuestionDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range questionDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
