package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// csvHeaders is the fixed, Swedish-localized column set of the download.
var csvHeaders = []string{
	"Databas-ID", "Användare", "Fråga", "Kategori", "Typ", "Plats",
	"År", "Datum", "Tid", "Timma", "Veckodag", "Kommentar",
}

// weekdayNames maps the 0=Monday weekday index to its Swedish name.
var weekdayNames = []string{"måndag", "tisdag", "onsdag", "torsdag", "fredag", "lördag", "söndag"}

func exportRecord(r *store.EntryRow) []string {
	comment := ""
	if r.Comment != nil {
		comment = *r.Comment
	}
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.User,
		r.Question,
		r.Category,
		r.Type,
		r.Location,
		strconv.Itoa(r.Year),
		r.QuestionDate.Format("2006-01-02"),
		r.QuestionDate.Format("15:04:05"),
		strconv.Itoa(r.Hour),
		weekdayNames[r.Weekday],
		comment,
	}
}

func writeCSV(c *gin.Context, rows []store.EntryRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write(csvHeaders)
	for i := range rows {
		_ = w.Write(exportRecord(&rows[i]))
	}
}

func writeXLSX(c *gin.Context, rows []store.EntryRow, filename string) {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	for i, h := range csvHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for idx := range rows {
		for i, v := range exportRecord(&rows[idx]) {
			cell, _ := excelize.CoordinatesToCellName(i+1, idx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	xlsxName := strings.TrimSuffix(filename, ".csv") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsxName))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("write xlsx: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}
