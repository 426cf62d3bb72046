package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"go-office-ledger/internal/model"
	"go-office-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	service  service.LedgerService
	imageDir string
}

func NewLedgerHandler(s service.LedgerService, imageDir string) *LedgerHandler {
	return &LedgerHandler{service: s, imageDir: imageDir}
}

// getUserName pulls the authenticated user's name from the JWT context
// (set by RequireAuth).
func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// RegisterItem accepts JSON or a multipart form. An optional "image"
// file is stored on disk; only the resulting reference string reaches
// the ledger.
func (h *LedgerHandler) RegisterItem(c *fiber.Ctx) error {
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(file.Filename))
		dest := filepath.Join(h.imageDir, filename)
		if err := c.SaveFile(file, dest); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to store image"})
		}
		item.ImageRef = filename
	}

	if err := h.service.RegisterItem(&item, getUserName(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Item registered", "data": item})
}

// ApplyMovement records a stock-in/stock-out/dispose against an item.
// The actor comes from the form when present, otherwise the logged-in
// user's name is recorded.
func (h *LedgerHandler) ApplyMovement(c *fiber.Ctx) error {
	var mv model.Movement
	if err := c.BodyParser(&mv); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if mv.Actor == "" {
		mv.Actor = getUserName(c)
	}

	newBalance, err := h.service.ApplyMovement(&mv)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Movement recorded",
		"data":    mv,
		"balance": newBalance,
	})
}

func (h *LedgerHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.ListItems(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *LedgerHandler) GetHistory(c *fiber.Ctx) error {
	direction := model.Direction(c.Query("direction"))
	switch direction {
	case "", model.DirIn, model.DirOut, model.DirDispose:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid direction filter"})
	}

	movements, err := h.service.ListHistory(direction, c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}

func (h *LedgerHandler) GetMovement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid movement ID"})
	}

	mv, err := h.service.GetMovementByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Movement not found"})
	}
	return c.JSON(mv)
}

// GetSummary returns daily in/out totals for charts.
// Query params: days (default 7)
func (h *LedgerHandler) GetSummary(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.MovementSummary(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movement summary"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
