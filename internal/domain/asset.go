package domain

// Asset is one tracked hardware unit. Date columns hold canonical YYYY-MM-DD text.
type Asset struct {
	ID                   uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AssetID              string  `gorm:"column:asset_id;type:varchar(100);not null;index" json:"asset_id"`
	SerialNumber         string  `gorm:"column:serial_number;type:varchar(100);not null;index" json:"serial_number"`
	HardwareType         string  `gorm:"column:hardware_type;type:varchar(100);not null" json:"hardware_type"`
	ModelNumber          *string `gorm:"column:model_number;type:varchar(100)" json:"model_number"`
	OwnerFullname        string  `gorm:"column:owner_fullname;type:varchar(255);not null" json:"owner_fullname"`
	Hostname             string  `gorm:"column:hostname;type:varchar(255);not null" json:"hostname"`
	PNumber              string  `gorm:"column:p_number;type:varchar(50);not null" json:"p_number"`
	Cadre                string  `gorm:"column:cadre;type:varchar(100);not null" json:"cadre"`
	Department           string  `gorm:"column:department;type:varchar(255);not null" json:"department"`
	Section              *string `gorm:"column:section;type:varchar(255)" json:"section"`
	Building             *string `gorm:"column:building;type:varchar(255)" json:"building"`
	Vendor               *string `gorm:"column:vendor;type:varchar(255)" json:"vendor"`
	PONumber             *string `gorm:"column:po_number;type:varchar(100)" json:"po_number"`
	PODate               *string `gorm:"column:po_date;type:varchar(10)" json:"po_date"`
	DCNumber             *string `gorm:"column:dc_number;type:varchar(100)" json:"dc_number"`
	DCDate               *string `gorm:"column:dc_date;type:varchar(10)" json:"dc_date"`
	AssignedDate         *string `gorm:"column:assigned_date;type:varchar(10)" json:"assigned_date"`
	ReplacementDuePeriod *string `gorm:"column:replacement_due_period;type:varchar(50)" json:"replacement_due_period"`
	ReplacementDueDate   *string `gorm:"column:replacement_due_date;type:varchar(10);index" json:"replacement_due_date"`
	OperationalStatus    string  `gorm:"column:operational_status;type:varchar(50);not null" json:"operational_status"`
	DispositionStatus    string  `gorm:"column:disposition_status;type:varchar(50);not null" json:"disposition_status"`
}

func (Asset) TableName() string {
	return "assets"
}

// AssetColumns lists every writable asset column in storage order.
var AssetColumns = []string{
	"asset_id", "serial_number", "hardware_type", "model_number", "owner_fullname", "hostname",
	"p_number", "cadre", "department", "section", "building", "vendor",
	"po_number", "po_date", "dc_number", "dc_date", "assigned_date",
	"replacement_due_period", "replacement_due_date", "operational_status", "disposition_status",
}

// RequiredAssetColumns must be non-empty on create.
var RequiredAssetColumns = []string{
	"asset_id", "serial_number", "hardware_type", "owner_fullname", "hostname",
	"p_number", "cadre", "department", "operational_status", "disposition_status",
}

// AssetDateColumns are normalized to YYYY-MM-DD before persistence.
var AssetDateColumns = map[string]bool{
	"po_date":              true,
	"dc_date":              true,
	"assigned_date":        true,
	"replacement_due_date": true,
}
