package models

// Region, City, Street and House form the legal-address hierarchy of a supplier.
type Region struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:100;not null"`
	Cities []City
}

type City struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;index"`
	ShortName string `gorm:"size:100;not null"`
	RegionID  *uint  `gorm:"index"`
	Region    *Region
	Streets   []Street
}

type Street struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:100;not null"`
	CityID uint   `gorm:"index;not null"`
	City   City
	Houses []House
}

type House struct {
	ID       uint `gorm:"primaryKey"`
	Number   int  `gorm:"not null"`
	StreetID uint `gorm:"index;not null"`
	Street   Street
}
