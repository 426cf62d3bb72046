package handler

import (
	"go-office-ledger/internal/model"
	"go-office-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type ExportHandler struct {
	ledger service.LedgerService
	export service.ExportService
}

func NewExportHandler(ledger service.LedgerService, export service.ExportService) *ExportHandler {
	return &ExportHandler{ledger: ledger, export: export}
}

// ItemsSpreadsheet downloads the current item listing, honoring the same
// search filter as GET /items.
func (h *ExportHandler) ItemsSpreadsheet(c *fiber.Ctx) error {
	items, err := h.ledger.ListItems(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	buf, err := h.export.ItemsWorkbook(items)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build spreadsheet"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="items.xlsx"`)
	return c.Send(buf.Bytes())
}

// HistorySpreadsheet downloads the movement log, honoring the same
// filters as GET /history.
func (h *ExportHandler) HistorySpreadsheet(c *fiber.Ctx) error {
	direction := model.Direction(c.Query("direction"))
	switch direction {
	case "", model.DirIn, model.DirOut, model.DirDispose:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid direction filter"})
	}

	movements, err := h.ledger.ListHistory(direction, c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	buf, err := h.export.HistoryWorkbook(movements)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build spreadsheet"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="history.xlsx"`)
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) ItemsPDF(c *fiber.Ctx) error {
	items, err := h.ledger.ListItems(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	buf, err := h.export.ItemsPDF(items)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build PDF"})
	}

	c.Set(fiber.HeaderContentType, pdfContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="items.pdf"`)
	return c.Send(buf.Bytes())
}
