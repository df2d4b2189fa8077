package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-backend/internal/application/categories"
	"inventory-backend/internal/application/status"
	"inventory-backend/internal/domain"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/pkg/apperr"
	"inventory-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Fields carries asset column values keyed by column name. A present key with
// a nil value is an explicit null; an absent key leaves the column untouched.
type Fields map[string]*string

func (f Fields) value(col string) string {
	if v, ok := f[col]; ok && v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

// CategoryLister reads taxonomy values for dropdowns.
type CategoryLister interface {
	List(ctx context.Context, category string) ([]categories.Entry, error)
}

// SweepObserver is notified after every expiry sweep.
type SweepObserver interface {
	SweepDone(source string, affected int64, err error)
}

// Service manages asset records.
type Service struct {
	DB         *gorm.DB
	Engine     *status.Engine
	Categories CategoryLister
	Metrics    SweepObserver
}

type CreateResult struct {
	ID                     uint   `json:"asset_db_id"`
	AutoStatusApplied      bool   `json:"auto_status_applied"`
	FinalOperationalStatus string `json:"final_operational_status"`
}

type UpdateResult struct {
	AutoStatusApplied      bool          `json:"auto_status_applied"`
	FinalOperationalStatus string        `json:"final_operational_status"`
	Asset                  *domain.Asset `json:"asset"`
}

// Create validates and inserts a new asset, applying the expiring-soon rule.
func (s *Service) Create(ctx context.Context, in Fields) (*CreateResult, error) {
	var missing []string
	for _, col := range domain.RequiredAssetColumns {
		if in.value(col) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields").WithDetail("missing", missing)
	}

	asset := &domain.Asset{}
	for _, col := range domain.AssetColumns {
		v, err := normalize(col, in[col])
		if err != nil {
			return nil, err
		}
		setColumn(asset, col, trimValue(v))
	}

	supplied := asset.OperationalStatus
	final, applied := s.Engine.Decide(asset.ReplacementDueDate, supplied)
	asset.OperationalStatus = final
	if applied {
		log.Info().Str("asset_id", asset.AssetID).Str("replacement_due_date", *asset.ReplacementDueDate).
			Msg("asset status set to expiring soon")
	}

	if err := s.DB.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperr.Storage("", err)
	}
	return &CreateResult{
		ID:                     asset.ID,
		AutoStatusApplied:      applied,
		FinalOperationalStatus: final,
	}, nil
}

// Update applies the supplied fields to an existing asset. When the
// replacement due date is among them the expiring-soon rule runs again and
// its result takes precedence over a status supplied in the same request.
func (s *Service) Update(ctx context.Context, id uint, in Fields) (*UpdateResult, error) {
	var out UpdateResult
	err := database.Transaction(ctx, s.DB, func(tx *gorm.DB) error {
		var existing domain.Asset
		if err := database.ForUpdate(tx).First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Asset not found")
			}
			return apperr.Storage("", err)
		}

		updates := map[string]interface{}{}
		for _, col := range domain.AssetColumns {
			raw, ok := in[col]
			if !ok {
				continue
			}
			v, err := normalize(col, raw)
			if err != nil {
				return err
			}
			updates[col] = columnValue(col, trimValue(v))
		}
		if len(updates) == 0 {
			return apperr.Validation("No fields provided to update")
		}

		final := existing.OperationalStatus
		if v, ok := updates["operational_status"].(string); ok {
			final = v
		}
		if _, ok := in["replacement_due_date"]; ok {
			effective := in.value("operational_status")
			if effective == "" {
				effective = existing.OperationalStatus
			}
			due, _ := updates["replacement_due_date"].(*string)
			if s.Engine.ShouldOverride(due, effective) {
				out.AutoStatusApplied = final != status.ExpiringSoon
				final = status.ExpiringSoon
				updates["operational_status"] = final
				log.Info().Uint("id", id).Str("replacement_due_date", *due).Msg("asset status set to expiring soon")
			}
		}

		if err := tx.Model(&domain.Asset{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return apperr.Storage("", err)
		}
		var updated domain.Asset
		if err := tx.First(&updated, id).Error; err != nil {
			return apperr.Storage("", err)
		}
		out.FinalOperationalStatus = final
		out.Asset = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an asset. Assets with transfer history cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return database.Transaction(ctx, s.DB, func(tx *gorm.DB) error {
		var existing domain.Asset
		if err := database.ForUpdate(tx).First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Asset not found")
			}
			return apperr.Storage("", err)
		}
		var n int64
		if err := tx.Model(&domain.AssetTransfer{}).Where("asset_id = ?", id).Count(&n).Error; err != nil {
			return apperr.Storage("", err)
		}
		if n > 0 {
			return apperr.Conflict("Asset has transfer history and cannot be deleted").WithDetail("transfers", n)
		}
		if err := tx.Delete(&domain.Asset{}, id).Error; err != nil {
			return apperr.Storage("", err)
		}
		return nil
	})
}

// MarkSurplus sets both status columns to "surplus".
func (s *Service) MarkSurplus(ctx context.Context, id uint) error {
	var existing domain.Asset
	if err := s.DB.WithContext(ctx).Select("id").First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Asset not found")
		}
		return apperr.Storage("", err)
	}
	err := s.DB.WithContext(ctx).Model(&domain.Asset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"operational_status": status.Surplus,
		"disposition_status": status.Surplus,
	}).Error
	if err != nil {
		return apperr.Storage("", err)
	}
	return nil
}

func normalize(col string, v *string) (*string, error) {
	if v == nil || !domain.AssetDateColumns[col] {
		return v, nil
	}
	out, err := validation.NormalizeDate(v)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("Invalid date for %s", col))
	}
	return out, nil
}

// trimValue strips surrounding whitespace; a blank value becomes nil.
func trimValue(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// columnValue turns an explicit null on a NOT NULL column into "".
func columnValue(col string, v *string) interface{} {
	switch col {
	case "asset_id", "serial_number", "hardware_type", "owner_fullname", "hostname",
		"p_number", "cadre", "department", "operational_status", "disposition_status":
		if v == nil {
			return ""
		}
		return *v
	}
	return v
}

func setColumn(a *domain.Asset, col string, v *string) {
	str := func() string {
		if v == nil {
			return ""
		}
		return *v
	}
	switch col {
	case "asset_id":
		a.AssetID = str()
	case "serial_number":
		a.SerialNumber = str()
	case "hardware_type":
		a.HardwareType = str()
	case "model_number":
		a.ModelNumber = v
	case "owner_fullname":
		a.OwnerFullname = str()
	case "hostname":
		a.Hostname = str()
	case "p_number":
		a.PNumber = str()
	case "cadre":
		a.Cadre = str()
	case "department":
		a.Department = str()
	case "section":
		a.Section = v
	case "building":
		a.Building = v
	case "vendor":
		a.Vendor = v
	case "po_number":
		a.PONumber = v
	case "po_date":
		a.PODate = v
	case "dc_number":
		a.DCNumber = v
	case "dc_date":
		a.DCDate = v
	case "assigned_date":
		a.AssignedDate = v
	case "replacement_due_period":
		a.ReplacementDuePeriod = v
	case "replacement_due_date":
		a.ReplacementDueDate = v
	case "operational_status":
		a.OperationalStatus = str()
	case "disposition_status":
		a.DispositionStatus = str()
	}
}
