package transfers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	transfersvc "inventory-backend/internal/application/transfers"
	"inventory-backend/internal/middleware"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/pagination"
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds the transfer ledger service.
type Handlers struct {
	Service *transfersvc.Service
}

// CreateTransferRequest body. Values may arrive as JSON strings or numbers.
type CreateTransferRequest struct {
	AssetID          interface{} `json:"asset_id"`
	NewOwnerFullname interface{} `json:"new_owner_fullname"`
	NewHostname      interface{} `json:"new_hostname"`
	NewPNumber       interface{} `json:"new_p_number"`
	NewCadre         interface{} `json:"new_cadre"`
	NewDepartment    interface{} `json:"new_department"`
	NewSection       interface{} `json:"new_section"`
	NewBuilding      interface{} `json:"new_building"`
	TransferReason   interface{} `json:"transfer_reason"`
}

// CreateTransfer POST /asset-transfers/create-transfer-asset (requires auth)
func (h *Handlers) CreateTransfer(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CreateTransferRequest
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if len(c.Body()) > 0 {
		if err := dec.Decode(&req); err != nil {
			return response.Fail(c, apperr.Validation("Invalid JSON body"))
		}
	}

	assetID, _ := strconv.ParseUint(deref(text(req.AssetID)), 10, 64)
	res, err := h.Service.Create(c.UserContext(), transfersvc.CreateInput{
		AssetID:          uint(assetID),
		NewOwnerFullname: deref(text(req.NewOwnerFullname)),
		NewCadre:         deref(text(req.NewCadre)),
		NewDepartment:    deref(text(req.NewDepartment)),
		NewHostname:      text(req.NewHostname),
		NewPNumber:       text(req.NewPNumber),
		NewSection:       text(req.NewSection),
		NewBuilding:      text(req.NewBuilding),
		TransferReason:   text(req.TransferReason),
	}, transfersvc.Actor{UserID: user.UserID, Email: user.Email})
	if err != nil {
		return response.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Asset transfer recorded successfully",
		"data": fiber.Map{
			"transfer_id":          res.TransferID,
			"asset_id":             res.AssetID,
			"asset_serial_number":  res.AssetSerialNumber,
			"new_owner_fullname":   res.NewOwnerFullname,
			"transferred_by_email": res.TransferredByEmail,
		},
	})
}

// GetAllTransfers GET /asset-transfers/get-all-transfer-assets
func (h *Handlers) GetAllTransfers(c *fiber.Ctx) error {
	var assetID uint64
	if raw := strings.TrimSpace(c.Query("asset_id")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return response.Fail(c, apperr.Validation("Invalid asset_id"))
		}
		assetID = n
	}
	res, err := h.Service.List(c.UserContext(), transfersvc.ListQuery{
		Search:        c.Query("search"),
		AssetID:       uint(assetID),
		SortKey:       c.Query("sort_key"),
		SortDirection: c.Query("sort_direction"),
		Page:          pagination.Parse(c.Query("page"), c.Query("limit"), transfersvc.DefaultLimit, transfersvc.MaxLimit),
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return pageJSON(c, res)
}

// GetAssetHistory GET /asset-transfers/asset-history/:asset_id
func (h *Handlers) GetAssetHistory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("asset_id"), 10, 64)
	if err != nil || id == 0 {
		return response.Fail(c, apperr.Validation("Asset ID is required"))
	}
	p := pagination.Parse(c.Query("page"), c.Query("limit"), transfersvc.DefaultLimit, transfersvc.MaxLimit)
	res, err := h.Service.History(c.UserContext(), uint(id), c.Query("sort_key"), c.Query("sort_direction"), p)
	if err != nil {
		return response.Fail(c, err)
	}
	return pageJSON(c, res)
}

// GetTransferByID GET /asset-transfers/transfer/:transfer_id
func (h *Handlers) GetTransferByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("transfer_id"), 10, 64)
	if err != nil || id == 0 {
		return response.Fail(c, apperr.Validation("Transfer ID is required"))
	}
	rec, err := h.Service.ByID(c.UserContext(), uint(id))
	if err != nil {
		return response.Fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rec})
}

func pageJSON(c *fiber.Ctx, res *transfersvc.PageResult) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"total":      res.Total,
		"page":       res.Page,
		"limit":      res.Limit,
		"totalPages": res.TotalPages,
		"data":       res.Data,
	})
}

// text converts a decoded JSON scalar to a string pointer; null and
// non-scalars become nil.
func text(v interface{}) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
