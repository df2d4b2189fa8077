package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	assetsvc "inventory-backend/internal/application/assets"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/pagination"
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Sweep sources reported to metrics and logs.
const (
	SourceCheckExpiring = "check-expiring"
	SourceAutoUpdate    = "auto-update-status"
)

// Handlers holds the asset service.
type Handlers struct {
	Service *assetsvc.Service
}

// CreateAsset POST /asset/createAsset
func (h *Handlers) CreateAsset(c *fiber.Ctx) error {
	fields, err := parseFields(c.Body())
	if err != nil {
		return response.Fail(c, err)
	}
	res, err := h.Service.Create(c.UserContext(), fields)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":                  "Asset created successfully",
		"asset_db_id":              res.ID,
		"auto_status_applied":      res.AutoStatusApplied,
		"final_operational_status": res.FinalOperationalStatus,
	})
}

// UpdateAsset PUT /asset/assets/:id
func (h *Handlers) UpdateAsset(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Asset ID is required")
	if err != nil {
		return response.Fail(c, err)
	}
	fields, err := parseFields(c.Body())
	if err != nil {
		return response.Fail(c, err)
	}
	res, err := h.Service.Update(c.UserContext(), id, fields)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":                  "Asset updated successfully",
		"auto_status_applied":      res.AutoStatusApplied,
		"final_operational_status": res.FinalOperationalStatus,
		"data":                     res.Asset,
	})
}

// DeleteAsset DELETE /asset/deleteAsset/:id
func (h *Handlers) DeleteAsset(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Asset ID is required")
	if err != nil {
		return response.Fail(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset deleted successfully"})
}

// MarkSurplus PUT /asset/assets/:id/surplus
func (h *Handlers) MarkSurplus(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "Asset ID is required")
	if err != nil {
		return response.Fail(c, err)
	}
	if err := h.Service.MarkSurplus(c.UserContext(), id); err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Asset marked as surplus successfully"})
}

// GetAllAssets GET /asset/getAllAssets
func (h *Handlers) GetAllAssets(c *fiber.Ctx) error {
	page := pagination.Parse(c.Query("page"), c.Query("limit"), assetsvc.DefaultLimit, assetsvc.MaxLimit)
	page.NoLimit = c.QueryBool("noLimit", false)
	res, err := h.Service.List(c.UserContext(), filterFrom(c), page)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"total":   res.Total,
		"page":    res.Page,
		"limit":   res.Limit,
		"data":    res.Data,
		"fetched": res.Fetched,
	})
}

// ExportAssets GET /asset/export
func (h *Handlers) ExportAssets(c *fiber.Ctx) error {
	res, err := h.Service.Export(c.UserContext(), filterFrom(c))
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"data":            res.Data,
		"total":           res.Total,
		"message":         fmt.Sprintf("Successfully exported %d assets", res.Total),
		"filters_applied": res.FiltersApplied,
	})
}

// FilterOptions GET /asset/filter-options
func (h *Handlers) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.Service.FilterOptions(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": opts})
}

// DropdownOptions GET /asset/dropdown-options
func (h *Handlers) DropdownOptions(c *fiber.Ctx) error {
	opts, err := h.Service.DropdownOptions(c.UserContext())
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": opts})
}

// CheckExpiring POST /asset/check-expiring
func (h *Handlers) CheckExpiring(c *fiber.Ctx) error {
	return h.sweep(c, SourceCheckExpiring)
}

// AutoUpdateStatus POST /asset/auto-update-status
func (h *Handlers) AutoUpdateStatus(c *fiber.Ctx) error {
	return h.sweep(c, SourceAutoUpdate)
}

func (h *Handlers) sweep(c *fiber.Ctx, source string) error {
	res, err := h.Service.SweepExpiring(c.UserContext(), source)
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"message":         fmt.Sprintf("Updated %d assets to 'expiring soon' status", res.AffectedRows),
		"affectedRows":    res.AffectedRows,
		"checkDate":       res.CheckDate,
		"expiryThreshold": res.ExpiryThreshold,
	})
}

func filterFrom(c *fiber.Ctx) assetsvc.Filter {
	return assetsvc.Filter{
		Search:            strings.TrimSpace(c.Query("search")),
		Department:        c.Query("department"),
		HardwareType:      c.Query("hardware_type"),
		Cadre:             c.Query("cadre"),
		Building:          c.Query("building"),
		Section:           c.Query("section"),
		OperationalStatus: c.Query("operational_status"),
		DispositionStatus: c.Query("disposition_status"),
		PODateFrom:        c.Query("po_date_from"),
		PODateTo:          c.Query("po_date_to"),
		AssignedDateFrom:  c.Query("assigned_date_from"),
		AssignedDateTo:    c.Query("assigned_date_to"),
		DCDateFrom:        c.Query("dc_date_from"),
		DCDateTo:          c.Query("dc_date_to"),
	}
}

func pathID(c *fiber.Ctx, name, missing string) (uint, error) {
	raw := c.Params(name)
	if raw == "" {
		return 0, apperr.Validation(missing)
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return uint(n), nil
}

// parseFields decodes a JSON object into asset fields. Strings are kept,
// numbers and booleans are formatted, null stays an explicit null.
func parseFields(body []byte) (assetsvc.Fields, error) {
	raw := map[string]interface{}{}
	if len(body) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, apperr.Validation("Invalid JSON body")
		}
	}
	fields := make(assetsvc.Fields, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			fields[k] = nil
		case string:
			s := t
			fields[k] = &s
		case json.Number:
			s := t.String()
			fields[k] = &s
		case bool:
			s := strconv.FormatBool(t)
			fields[k] = &s
		default:
			return nil, apperr.Validation("Invalid value for " + k)
		}
	}
	return fields, nil
}
