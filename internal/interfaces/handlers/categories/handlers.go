package categories

import (
	"strconv"

	catsvc "inventory-backend/internal/application/categories"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the category service.
type Handlers struct {
	Service *catsvc.Service
}

type addRequest struct {
	Value string `json:"value"`
}

// List GET /categories/:category
func (h *Handlers) List(c *fiber.Ctx) error {
	rows, err := h.Service.List(c.UserContext(), c.Params("category"))
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(rows)
}

// Add POST /categories/:category
func (h *Handlers) Add(c *fiber.Ctx) error {
	var req addRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.Fail(c, apperr.Validation("Value is required"))
		}
	}
	entry, err := h.Service.Add(c.UserContext(), c.Params("category"), req.Value)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Delete DELETE /categories/:category/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Fail(c, apperr.NotFound("Category not found"))
	}
	if err := h.Service.Delete(c.UserContext(), c.Params("category"), uint(id)); err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
