package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/kth-biblioteket/fragematning/internal/models"
	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuestionHandler struct {
	Store *store.QuestionStore
}

func NewQuestionHandler(s *store.QuestionStore) *QuestionHandler {
	return &QuestionHandler{Store: s}
}

// List returns questions joined with category metadata. ?user= filters to
// what that user may see; ?count_entries=1 annotates entry counts.
func (h *QuestionHandler) List(c *gin.Context) {
	rows, err := h.Store.List(c.Query("user"), c.Query("count_entries") != "")
	if err != nil {
		log.Printf("list questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Upsert takes a batch of questions and inserts or updates each by primary
// key. Every question must reference an existing category.
func (h *QuestionHandler) Upsert(c *gin.Context) {
	var rows []models.Question
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := h.Store.Upsert(rows); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown category"})
			return
		}
		log.Printf("upsert questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Delete removes a question by id; a missing id succeeds.
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	if err := h.Store.Delete(uint(id)); err != nil {
		log.Printf("delete question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.String(http.StatusOK, "")
}
