package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/util"
)

// ExportHandler streams the user's ledger as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Date", "Title", "Type", "Amount", "Category", "Account", "Notes", "Tags"}

func (h *ExportHandler) exportRows(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := h.DB.Preload("Category").Preload("Account").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&txs).Error
	return txs, err
}

func exportRecord(t *models.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		t.Title,
		t.Type,
		t.Amount.StringFixed(2),
		t.Category.Title,
		t.Account.Title,
		t.Notes,
		t.Tags,
	}
}

// ExportCSV writes the ledger as UTF-8 CSV with a BOM so spreadsheet
// applications detect the encoding.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)

	txs, err := h.exportRows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range txs {
		writer.Write(exportRecord(&txs[i]))
	}
}

// ExportXLSX writes the ledger as a single-sheet workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)

	txs, err := h.exportRows(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range txs {
		row := idx + 2
		for col, value := range exportRecord(&txs[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "F", 15)
	f.SetColWidth(sheetName, "G", "H", 25)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write workbook")
	}
}
