package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists the structs that represent tables in the catalog schema.
var DatabaseModels = []interface{}{
	&CatalogInfo{},
	&UnitTypeRecord{},
}

// CatalogInfo describes the unit table stored in the database.
type CatalogInfo struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:127"`
	Description string `json:"description" gorm:"size:255"`
}

func (*CatalogInfo) TableName() string {
	return "catalog_info"
}

// UnitTypeRecord is one purchasable unit type: its price, primary task and
// the tasks it can also fly or fight.
type UnitTypeRecord struct {
	gorm.Model
	Type         string         `json:"type" gorm:"size:127;uniqueIndex"`
	Price        float64        `json:"price"`
	Task         string         `json:"task" gorm:"size:31;index"`
	Capabilities datatypes.JSON `json:"capabilities"`
}

func (*UnitTypeRecord) TableName() string {
	return "unit_types"
}
