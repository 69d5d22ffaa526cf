package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kth-biblioteket/fragematning/internal/models"
	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Store *store.CategoryStore
}

func NewCategoryHandler(s *store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{Store: s}
}

// List returns all categories; ?count_entries=1 annotates each with the
// number of entries recorded against its questions.
func (h *CategoryHandler) List(c *gin.Context) {
	rows, err := h.Store.List(c.Query("count_entries") != "")
	if err != nil {
		log.Printf("list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Upsert takes a batch of categories and inserts or updates each by
// primary key. Admin only.
func (h *CategoryHandler) Upsert(c *gin.Context) {
	var rows []models.Category
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if err := h.Store.Upsert(rows); err != nil {
		log.Printf("upsert categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Delete removes a category and its questions. Admin only. Deleting a
// missing id succeeds.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	if err := h.Store.Delete(uint(id)); err != nil {
		log.Printf("delete category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.String(http.StatusOK, "")
}
