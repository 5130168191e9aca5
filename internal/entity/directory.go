package entity

import "time"

// DefaultFlatNo is the flat number of the address created together with every building.
const DefaultFlatNo = "DEFAULT"

type BuildingType struct {
	ID       uint   `gorm:"primaryKey" json:"type_id"`
	TypeName string `gorm:"size:50;uniqueIndex;not null" json:"type_name"`
	Category string `gorm:"size:50" json:"category"`
}

type Building struct {
	ID           uint         `gorm:"primaryKey" json:"building_id"`
	BuildingName string       `gorm:"size:150;not null" json:"building_name"`
	Street       string       `gorm:"size:200" json:"street"`
	Zone         string       `gorm:"size:50" json:"zone"`
	Pincode      string       `gorm:"size:20" json:"pincode"`
	TypeID       uint         `gorm:"not null;index" json:"type_id"`
	Type         BuildingType `gorm:"foreignKey:TypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"type"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`

	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

type Address struct {
	ID         uint      `gorm:"primaryKey" json:"address_id"`
	BuildingID uint      `gorm:"not null;uniqueIndex:idx_address_building_flat" json:"building_id"`
	FlatNo     string    `gorm:"size:20;not null;uniqueIndex:idx_address_building_flat" json:"flat_no"`
	Building   *Building `json:"building,omitempty"`

	Occupants []CitizenAddress `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bills     []Bill           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// CitizenAddress is the occupancy link between a citizen and an address.
// The (citizen, address) pair is the key and never changes after creation.
type CitizenAddress struct {
	CitizenID uint       `gorm:"primaryKey;autoIncrement:false" json:"citizen_id"`
	AddressID uint       `gorm:"primaryKey;autoIncrement:false" json:"address_id"`
	Role      string     `gorm:"size:30;not null" json:"role"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`

	Citizen *Citizen `json:"citizen,omitempty"`
	Address *Address `json:"address,omitempty"`
}
