package domain

// LookupEntry is the (id, name) row shared by the taxonomy tables.
type LookupEntry struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null" json:"value"`
}

type Department struct{ LookupEntry }
type Building struct{ LookupEntry }
type Section struct{ LookupEntry }
type Model struct{ LookupEntry }
type Vendor struct{ LookupEntry }
type Cadre struct{ LookupEntry }
type DispositionStatus struct{ LookupEntry }
type OperationalStatus struct{ LookupEntry }

func (Department) TableName() string        { return "department" }
func (Building) TableName() string          { return "building" }
func (Section) TableName() string           { return "sections" }
func (Model) TableName() string             { return "models" }
func (Vendor) TableName() string            { return "vendors" }
func (Cadre) TableName() string             { return "cadres" }
func (DispositionStatus) TableName() string { return "disposition_status" }
func (OperationalStatus) TableName() string { return "operational_status" }

// HardwareType predates the other taxonomy tables and keeps its own column names.
type HardwareType struct {
	TypeID   uint   `gorm:"column:type_id;primaryKey;autoIncrement" json:"id"`
	TypeName string `gorm:"column:type_name;type:varchar(255);not null" json:"value"`
}

func (HardwareType) TableName() string { return "hardware_type" }

// Models returns every table the application owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Asset{},
		&AssetTransfer{},
		&HardwareType{},
		&Department{},
		&Building{},
		&Section{},
		&Model{},
		&Vendor{},
		&Cadre{},
		&DispositionStatus{},
		&OperationalStatus{},
	}
}
