package model

// MeasurementUnit 计量单位
type MeasurementUnit struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string `gorm:"size:64;not null;comment:单位全称" json:"full_name"`
	ShortName string `gorm:"size:64;not null;index;check:chk_measurement_units_short_name,short_name <> '';comment:单位简称" json:"short_name"`
}

func (MeasurementUnit) TableName() string {
	return "measurement_units"
}

// Ingredient 食材
type Ingredient struct {
	ID                int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string `gorm:"size:128;not null;index:idx_ingredients_name;check:chk_ingredients_name,name <> '';comment:食材名称" json:"name"`
	MeasurementUnitID int64  `gorm:"not null;index;comment:计量单位ID" json:"-"`

	MeasurementUnit MeasurementUnit `gorm:"foreignKey:MeasurementUnitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
