package transfers

import (
	"context"
	"errors"
	"strings"
	"time"

	"inventory-backend/internal/domain"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/pkg/apperr"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Identity reported for transfers with no known actor.
const (
	SystemEmail = "system@company.com"
	SystemName  = "System"
	SystemRole  = "system"
)

// TransferObserver is told about committed transfers.
type TransferObserver interface {
	TransferRecorded()
}

// Service records ownership changes and reads the ledger.
type Service struct {
	DB      *gorm.DB
	Now     func() time.Time
	Metrics TransferObserver
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

type CreateInput struct {
	AssetID          uint
	NewOwnerFullname string
	NewCadre         string
	NewDepartment    string
	NewHostname      *string
	NewPNumber       *string
	NewSection       *string
	NewBuilding      *string
	TransferReason   *string
}

// Actor is the authenticated user performing a transfer.
type Actor struct {
	UserID uint
	Email  string
}

type CreateResult struct {
	TransferID         uint   `json:"transfer_id"`
	AssetID            uint   `json:"asset_id"`
	AssetSerialNumber  string `json:"asset_serial_number"`
	NewOwnerFullname   string `json:"new_owner_fullname"`
	TransferredByEmail string `json:"transferred_by_email"`
}

// Create appends a ledger row holding the asset's current assignment and the
// new values, then applies the new values to the asset. Both writes commit
// together or not at all.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (*CreateResult, error) {
	owner := strings.TrimSpace(in.NewOwnerFullname)
	cadre := strings.TrimSpace(in.NewCadre)
	dept := strings.TrimSpace(in.NewDepartment)
	if in.AssetID == 0 || owner == "" || cadre == "" || dept == "" {
		return nil, apperr.Validation("Missing required fields. asset_id, new_owner_fullname, new_cadre, and new_department are required.")
	}
	if actor.UserID == 0 {
		return nil, apperr.Authentication("Unauthorized")
	}

	var out CreateResult
	err := database.Transaction(ctx, s.DB, func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := database.ForUpdate(tx).First(&asset, in.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Asset not found")
			}
			return apperr.Storage("", err)
		}

		by := actor.Email
		var u domain.User
		err := tx.Select("id", "email").Where("id = ?", actor.UserID).Take(&u).Error
		switch {
		case err == nil:
			by = u.Email
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return apperr.Storage("", err)
		}

		actorID := actor.UserID
		row := domain.AssetTransfer{
			AssetID:               asset.ID,
			AssetSerialNumber:     asset.SerialNumber,
			PreviousOwnerFullname: nonEmpty(asset.OwnerFullname),
			PreviousHostname:      nonEmpty(asset.Hostname),
			PreviousPNumber:       nonEmpty(asset.PNumber),
			PreviousCadre:         nonEmpty(asset.Cadre),
			PreviousDepartment:    nonEmpty(asset.Department),
			PreviousSection:       trimmed(asset.Section),
			PreviousBuilding:      trimmed(asset.Building),
			NewOwnerFullname:      owner,
			NewHostname:           trimmed(in.NewHostname),
			NewPNumber:            trimmed(in.NewPNumber),
			NewCadre:              cadre,
			NewDepartment:         dept,
			NewSection:            trimmed(in.NewSection),
			NewBuilding:           trimmed(in.NewBuilding),
			TransferReason:        trimmed(in.TransferReason),
			TransferDate:          s.now(),
			TransferredBy:         nonEmpty(by),
			TransferredByUserID:   &actorID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperr.Storage("", err)
		}

		hostname := Effective(in.NewHostname, &asset.Hostname)
		pNumber := Effective(in.NewPNumber, &asset.PNumber)
		err = tx.Model(&domain.Asset{}).Where("id = ?", asset.ID).Updates(map[string]interface{}{
			"owner_fullname": owner,
			"hostname":       *hostname,
			"p_number":       *pNumber,
			"cadre":          cadre,
			"department":     dept,
			"section":        Effective(in.NewSection, asset.Section),
			"building":       Effective(in.NewBuilding, asset.Building),
		}).Error
		if err != nil {
			return apperr.Storage("", err)
		}

		out = CreateResult{
			TransferID:         row.ID,
			AssetID:            asset.ID,
			AssetSerialNumber:  asset.SerialNumber,
			NewOwnerFullname:   owner,
			TransferredByEmail: by,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.TransferRecorded()
	}
	log.Info().Uint("asset_id", out.AssetID).Uint("transfer_id", out.TransferID).
		Str("by", out.TransferredByEmail).Msg("asset transfer recorded")
	return &out, nil
}
