package transfers

import (
	"context"
	"strings"

	"inventory-backend/internal/domain"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 1000
	DefaultSort  = "transfer_date"
)

// listSortColumns maps accepted sort keys to qualified columns.
var listSortColumns = map[string]string{
	"transfer_date":             "t.transfer_date",
	"asset_serial_number":       "t.asset_serial_number",
	"hardware_type":             "a.hardware_type",
	"previous_owner_fullname":   "t.previous_owner_fullname",
	"new_owner_fullname":        "t.new_owner_fullname",
	"transfer_reason":           "t.transfer_reason",
	"transferred_by_user_email": "u.email",
	"new_department":            "t.new_department",
	"previous_department":       "t.previous_department",
}

var historySortColumns = map[string]string{
	"transfer_date":      "t.transfer_date",
	"new_owner_fullname": "t.new_owner_fullname",
	"transfer_reason":    "t.transfer_reason",
}

var searchColumns = []string{
	"t.asset_serial_number", "t.new_owner_fullname", "t.previous_owner_fullname",
	"a.hardware_type", "t.transfer_reason", "a.asset_id",
	"t.new_department", "t.previous_department", "u.email",
}

// Record is a ledger row enriched with the asset's current descriptors and
// the actor's account details.
type Record struct {
	domain.AssetTransfer
	AssetIdentifier        *string `gorm:"column:asset_identifier" json:"asset_identifier"`
	HardwareType           *string `gorm:"column:hardware_type" json:"hardware_type"`
	ModelNumber            *string `gorm:"column:model_number" json:"model_number"`
	Vendor                 *string `gorm:"column:vendor" json:"vendor"`
	CurrentSerialNumber    *string `gorm:"column:current_serial_number" json:"-"`
	TransferredByUserEmail *string `gorm:"column:transferred_by_user_email" json:"transferred_by_user_email"`
	TransferredByUserName  *string `gorm:"column:transferred_by_user_name" json:"transferred_by_user_name"`
	TransferredByUserRole  *string `gorm:"column:transferred_by_user_role" json:"transferred_by_user_role"`
}

func (r *Record) fillDefaults() {
	if r.AssetSerialNumber == "" && r.CurrentSerialNumber != nil {
		r.AssetSerialNumber = *r.CurrentSerialNumber
	}
	def := func(p **string, v string) {
		if *p == nil || **p == "" {
			*p = &v
		}
	}
	def(&r.TransferredByUserEmail, SystemEmail)
	def(&r.TransferredByUserName, SystemName)
	def(&r.TransferredByUserRole, SystemRole)
}

// ListQuery selects a page of the ledger.
type ListQuery struct {
	Search        string
	AssetID       uint
	SortKey       string
	SortDirection string
	Page          pagination.Page
}

type PageResult struct {
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int64    `json:"totalPages"`
	Data       []Record `json:"data"`
}

func (s *Service) base(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("asset_transfers AS t").
		Joins("LEFT JOIN assets AS a ON t.asset_id = a.id").
		Joins("LEFT JOIN " + database.Quote(s.DB, "user") + " AS u ON t.transferred_by_user_id = u.id")
}

const enrichedSelect = "t.*, a.asset_id AS asset_identifier, a.serial_number AS current_serial_number, " +
	"a.hardware_type, a.model_number, a.vendor, " +
	"u.email AS transferred_by_user_email, u.name AS transferred_by_user_name, u.role AS transferred_by_user_role"

// orderBy resolves key against allowed, falling back to transfer_date, and
// breaks ties on id in the same direction.
func orderBy(allowed map[string]string, key, direction string) string {
	col, ok := allowed[key]
	if !ok {
		col = allowed[DefaultSort]
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(direction), "ASC") {
		dir = "ASC"
	}
	return col + " " + dir + ", t.id " + dir
}

// List returns a page of enriched transfers matching q.
func (s *Service) List(ctx context.Context, q ListQuery) (*PageResult, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Search); term != "" {
			like := "%" + term + "%"
			or := db.Session(&gorm.Session{NewDB: true})
			for i, col := range searchColumns {
				if i == 0 {
					or = or.Where(col+" LIKE ?", like)
				} else {
					or = or.Or(col+" LIKE ?", like)
				}
			}
			db = db.Where(or)
		}
		if q.AssetID != 0 {
			db = db.Where("t.asset_id = ?", q.AssetID)
		}
		return db
	}

	var total int64
	if err := s.base(ctx).Scopes(scope).Distinct("t.id").Count(&total).Error; err != nil {
		return nil, apperr.Storage("", err)
	}

	rows := []Record{}
	err := s.base(ctx).Scopes(scope).
		Select(enrichedSelect).
		Order(orderBy(listSortColumns, q.SortKey, q.SortDirection)).
		Limit(q.Page.Limit).Offset(q.Page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("", err)
	}
	return page(rows, total, q.Page), nil
}

// History returns the transfers of one asset.
func (s *Service) History(ctx context.Context, assetID uint, sortKey, direction string, p pagination.Page) (*PageResult, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&domain.AssetTransfer{}).Where("asset_id = ?", assetID).Count(&total).Error; err != nil {
		return nil, apperr.Storage("", err)
	}
	rows := []Record{}
	err := s.base(ctx).
		Select(enrichedSelect).
		Where("t.asset_id = ?", assetID).
		Order(orderBy(historySortColumns, sortKey, direction)).
		Limit(p.Limit).Offset(p.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("", err)
	}
	return page(rows, total, p), nil
}

// ByID returns one enriched transfer.
func (s *Service) ByID(ctx context.Context, id uint) (*Record, error) {
	var rec Record
	res := s.base(ctx).Select(enrichedSelect).Where("t.id = ?", id).Limit(1).Scan(&rec)
	if res.Error != nil {
		return nil, apperr.Storage("", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Transfer record not found")
	}
	rec.fillDefaults()
	return &rec, nil
}

func page(rows []Record, total int64, p pagination.Page) *PageResult {
	for i := range rows {
		rows[i].fillDefaults()
	}
	if rows == nil {
		rows = []Record{}
	}
	return &PageResult{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pagination.TotalPages(total, p.Limit),
		Data:       rows,
	}
}

