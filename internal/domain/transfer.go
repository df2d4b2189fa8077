package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrLedgerImmutable is returned when code tries to change a stored transfer.
var ErrLedgerImmutable = errors.New("asset transfers are append-only")

// AssetTransfer is one ownership change. Rows are written once and never changed.
type AssetTransfer struct {
	ID                     uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AssetID                uint      `gorm:"column:asset_id;not null;index" json:"asset_id"`
	AssetSerialNumber      string    `gorm:"column:asset_serial_number;type:varchar(100)" json:"asset_serial_number"`
	PreviousOwnerFullname  *string   `gorm:"column:previous_owner_fullname;type:varchar(255)" json:"previous_owner_fullname"`
	PreviousHostname       *string   `gorm:"column:previous_hostname;type:varchar(255)" json:"previous_hostname"`
	PreviousPNumber        *string   `gorm:"column:previous_p_number;type:varchar(50)" json:"previous_p_number"`
	PreviousCadre          *string   `gorm:"column:previous_cadre;type:varchar(100)" json:"previous_cadre"`
	PreviousDepartment     *string   `gorm:"column:previous_department;type:varchar(255)" json:"previous_department"`
	PreviousSection        *string   `gorm:"column:previous_section;type:varchar(255)" json:"previous_section"`
	PreviousBuilding       *string   `gorm:"column:previous_building;type:varchar(255)" json:"previous_building"`
	NewOwnerFullname       string    `gorm:"column:new_owner_fullname;type:varchar(255);not null" json:"new_owner_fullname"`
	NewHostname            *string   `gorm:"column:new_hostname;type:varchar(255)" json:"new_hostname"`
	NewPNumber             *string   `gorm:"column:new_p_number;type:varchar(50)" json:"new_p_number"`
	NewCadre               string    `gorm:"column:new_cadre;type:varchar(100);not null" json:"new_cadre"`
	NewDepartment          string    `gorm:"column:new_department;type:varchar(255);not null" json:"new_department"`
	NewSection             *string   `gorm:"column:new_section;type:varchar(255)" json:"new_section"`
	NewBuilding            *string   `gorm:"column:new_building;type:varchar(255)" json:"new_building"`
	TransferReason         *string   `gorm:"column:transfer_reason;type:text" json:"transfer_reason"`
	TransferDate           time.Time `gorm:"column:transfer_date;not null;index" json:"transfer_date"`
	TransferredBy          *string   `gorm:"column:transferred_by;type:varchar(255)" json:"transferred_by"`
	TransferredByUserID    *uint     `gorm:"column:transferred_by_user_id;index" json:"transferred_by_user_id"`
}

func (AssetTransfer) TableName() string {
	return "asset_transfers"
}

func (t *AssetTransfer) BeforeUpdate(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

func (t *AssetTransfer) BeforeDelete(tx *gorm.DB) error {
	return ErrLedgerImmutable
}
