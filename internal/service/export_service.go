package service

import (
	"bytes"
	"fmt"

	"go-office-ledger/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the item and history listings as downloadable
// files. It is read-only over data the ledger already returned, so it
// holds no repositories of its own.
type ExportService interface {
	ItemsWorkbook(items []model.Item) (*bytes.Buffer, error)
	HistoryWorkbook(movements []model.Movement) (*bytes.Buffer, error)
	ItemsPDF(items []model.Item) (*bytes.Buffer, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

const timestampLayout = "2006-01-02 15:04:05"

func (s *exportService) ItemsWorkbook(items []model.Item) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"ID", "Name", "Unit", "Balance", "Registered At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for row, item := range items {
		values := []interface{}{
			item.ID.String(),
			item.Name,
			item.Unit,
			item.Balance,
			item.CreatedAt.Format(timestampLayout),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}

func (s *exportService) HistoryWorkbook(movements []model.Movement) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"ID", "Item", "Direction", "Amount", "Actor", "Recorded At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for row, mv := range movements {
		values := []interface{}{
			mv.ID.String(),
			mv.ItemName,
			string(mv.Direction),
			mv.Amount,
			mv.Actor,
			mv.CreatedAt.Format(timestampLayout),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}

func (s *exportService) ItemsPDF(items []model.Item) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Office Supplies Inventory", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := []float64{80, 30, 30, 50}
	headers := []string{"Name", "Unit", "Balance", "Registered At"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.CellFormat(widths[0], 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, item.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", item.Balance), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, item.CreatedAt.Format(timestampLayout), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
