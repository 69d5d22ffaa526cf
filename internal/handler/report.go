package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/config"
	"github.com/kth-biblioteket/fragematning/internal/filter"
	"github.com/kth-biblioteket/fragematning/internal/report"
	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the server-built chart datasets for the Results and
// Today's Activity views.
type ReportHandler struct {
	Store *store.EntryStore
	Cfg   *config.Config
}

func NewReportHandler(s *store.EntryStore, cfg *config.Config) *ReportHandler {
	return &ReportHandler{Store: s, Cfg: cfg}
}

// Results accepts the same ?where= and ?user= parameters as the entries
// listing plus ?group_by_year=1, and returns the shaped report.
func (h *ReportHandler) Results(c *gin.Context) {
	clauses := filter.Parse(c.Query("where"))
	rows, err := h.Store.List(clauses, c.Query("user"))
	if err != nil {
		log.Printf("report results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	groupByYear := c.Query("group_by_year")
	opts := report.Options{
		GroupByYear: groupByYear == "1" || groupByYear == "true",
		Colors:      h.Cfg.App.Colors,
		ColorOrder:  h.Cfg.App.ColorSortOrder,
	}
	c.JSON(http.StatusOK, report.BuildResults(rows, opts))
}

// Today narrows the same selection to entries recorded today and returns
// the top questions and hour chart. Clients refresh it on the new-entry
// event rather than polling.
func (h *ReportHandler) Today(c *gin.Context) {
	clauses := filter.Parse(c.Query("where"))
	rows, err := h.Store.List(clauses, c.Query("user"))
	if err != nil {
		log.Printf("report today: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, report.BuildToday(rows, time.Now()))
}
