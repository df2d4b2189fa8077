package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-backend/internal/application/status"
	"inventory-backend/internal/domain"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/pagination"
	"inventory-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

var searchColumns = []string{
	"serial_number", "asset_id", "hostname", "owner_fullname",
	"model_number", "p_number", "dc_number", "vendor",
}

// Filter is the shared predicate of list and export.
type Filter struct {
	Search            string
	Department        string
	HardwareType      string
	Cadre             string
	Building          string
	Section           string
	OperationalStatus string
	DispositionStatus string
	PODateFrom        string
	PODateTo          string
	AssignedDateFrom  string
	AssignedDateTo    string
	DCDateFrom        string
	DCDateTo          string
}

// Applied echoes the filter back to export callers.
func (f Filter) Applied() map[string]interface{} {
	return map[string]interface{}{
		"search":             f.Search,
		"department":         f.Department,
		"hardware_type":      f.HardwareType,
		"cadre":              f.Cadre,
		"building":           f.Building,
		"section":            f.Section,
		"operational_status": f.OperationalStatus,
		"disposition_status": f.DispositionStatus,
		"date_filters": map[string]string{
			"po_date_from":       f.PODateFrom,
			"po_date_to":         f.PODateTo,
			"assigned_date_from": f.AssignedDateFrom,
			"assigned_date_to":   f.AssignedDateTo,
			"dc_date_from":       f.DCDateFrom,
			"dc_date_to":         f.DCDateTo,
		},
	}
}

// scope compiles the filter into a GORM scope. Date bounds are normalized
// first so they compare correctly against the stored YYYY-MM-DD text.
func (f Filter) scope() (func(*gorm.DB) *gorm.DB, error) {
	type bound struct {
		col, op, raw string
	}
	bounds := []bound{
		{"po_date", ">=", f.PODateFrom}, {"po_date", "<=", f.PODateTo},
		{"assigned_date", ">=", f.AssignedDateFrom}, {"assigned_date", "<=", f.AssignedDateTo},
		{"dc_date", ">=", f.DCDateFrom}, {"dc_date", "<=", f.DCDateTo},
	}
	dates := make([]string, len(bounds))
	for i, b := range bounds {
		if b.raw == "" {
			continue
		}
		v, err := validation.NormalizeDate(&b.raw)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("Invalid date for %s", b.col))
		}
		if v != nil {
			dates[i] = *v
		}
	}

	exact := []struct{ col, val string }{
		{"department", f.Department},
		{"hardware_type", f.HardwareType},
		{"cadre", f.Cadre},
		{"building", f.Building},
		{"section", f.Section},
		{"operational_status", f.OperationalStatus},
		{"disposition_status", f.DispositionStatus},
	}

	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + f.Search + "%"
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
		for _, e := range exact {
			if e.val != "" {
				db = db.Where(e.col+" = ?", e.val)
			}
		}
		for i, b := range bounds {
			if dates[i] != "" {
				db = db.Where(b.col+" "+b.op+" ?", dates[i])
			}
		}
		return db
	}, nil
}

type ListResult struct {
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int64          `json:"limit"`
	Data    []domain.Asset `json:"data"`
	Fetched int            `json:"fetched"`
}

// List sweeps expiring assets, then returns one page of the filtered set
// ordered newest first. With NoLimit the whole set is returned.
func (s *Service) List(ctx context.Context, f Filter, page pagination.Page) (*ListResult, error) {
	if _, err := s.SweepExpiring(ctx, "list"); err != nil {
		log.Warn().Err(err).AnErr("cause", errors.Unwrap(err)).Msg("could not update expiring assets before list")
	}

	scope, err := f.scope()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&domain.Asset{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, apperr.Storage("", err)
	}

	q := s.DB.WithContext(ctx).Model(&domain.Asset{}).Scopes(scope).Order("id DESC")
	if !page.NoLimit {
		q = q.Limit(page.Limit).Offset(page.Offset())
	}
	rows := []domain.Asset{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Storage("", err)
	}

	out := &ListResult{Total: total, Page: page.Page, Limit: int64(page.Limit), Data: rows, Fetched: len(rows)}
	if page.NoLimit {
		out.Page = 1
		out.Limit = total
	}
	return out, nil
}

type ExportResult struct {
	Data           []domain.Asset         `json:"data"`
	Total          int                    `json:"total"`
	FiltersApplied map[string]interface{} `json:"filters_applied"`
}

// Export returns the full filtered set without pagination.
func (s *Service) Export(ctx context.Context, f Filter) (*ExportResult, error) {
	scope, err := f.scope()
	if err != nil {
		return nil, err
	}
	rows := []domain.Asset{}
	if err := s.DB.WithContext(ctx).Model(&domain.Asset{}).Scopes(scope).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Storage("Failed to export assets", err)
	}
	return &ExportResult{Data: rows, Total: len(rows), FiltersApplied: f.Applied()}, nil
}

var filterOptionColumns = []struct{ key, col string }{
	{"departments", "department"},
	{"hardware_types", "hardware_type"},
	{"cadres", "cadre"},
	{"buildings", "building"},
	{"sections", "section"},
	{"operational_statuses", "operational_status"},
	{"disposition_statuses", "disposition_status"},
}

// FilterOptions returns the distinct non-empty values of each filterable column.
func (s *Service) FilterOptions(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(filterOptionColumns))
	for _, fc := range filterOptionColumns {
		vals := []string{}
		err := s.DB.WithContext(ctx).Model(&domain.Asset{}).
			Distinct().
			Where(fc.col + " IS NOT NULL AND " + fc.col + " <> ''").
			Order(fc.col).
			Pluck(fc.col, &vals).Error
		if err != nil {
			return nil, apperr.Storage("Failed to fetch filter options", err)
		}
		if vals == nil {
			vals = []string{}
		}
		out[fc.key] = vals
	}
	return out, nil
}

var dropdownCategories = []struct{ key, category string }{
	{"model_number", "model"},
	{"vendor", "vendor"},
	{"operational_status", "operational_status"},
	{"disposition_status", "disposition_status"},
}

// DropdownOptions returns the taxonomy values used by the asset form.
func (s *Service) DropdownOptions(ctx context.Context) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(dropdownCategories))
	for _, dc := range dropdownCategories {
		entries, err := s.Categories.List(ctx, dc.category)
		if err != nil {
			return nil, apperr.Storage("Failed to fetch dropdown options", err)
		}
		out[dc.key] = entries
	}
	return out, nil
}

type SweepResult struct {
	AffectedRows    int64  `json:"affectedRows"`
	CheckDate       string `json:"checkDate"`
	ExpiryThreshold string `json:"expiryThreshold"`
}

// SweepExpiring marks every asset due within the window as expiring soon.
// Assets already expiring soon, surplus or dead are left alone, so a second
// run without intervening writes affects nothing.
func (s *Service) SweepExpiring(ctx context.Context, source string) (*SweepResult, error) {
	start := time.Now()
	w := s.Engine.Window()
	res := s.DB.WithContext(ctx).Model(&domain.Asset{}).
		Where("replacement_due_date IS NOT NULL AND replacement_due_date <> ''").
		Where("replacement_due_date >= ? AND replacement_due_date <= ?", w.FromString(), w.ToString()).
		Where("LOWER(TRIM(operational_status)) NOT IN ?", []string{status.ExpiringSoon, status.Surplus, status.Dead}).
		Update("operational_status", status.ExpiringSoon)

	if s.Metrics != nil {
		s.Metrics.SweepDone(source, res.RowsAffected, res.Error)
	}
	if res.Error != nil {
		return nil, apperr.Storage("Failed to check expiring assets", res.Error)
	}
	log.Info().Str("source", source).Int64("affected", res.RowsAffected).
		Str("from", w.FromString()).Str("to", w.ToString()).
		Dur("took", time.Since(start)).Msg("expiry sweep finished")
	return &SweepResult{
		AffectedRows:    res.RowsAffected,
		CheckDate:       w.FromString(),
		ExpiryThreshold: w.ToString(),
	}, nil
}
