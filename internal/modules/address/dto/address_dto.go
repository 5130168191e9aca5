package dto

import "fmt"

type AddressRequest struct {
	FlatNo string `json:"flat_no" binding:"max=20"`
}

// AddressView is an address flattened with the fields of its building.
type AddressView struct {
	AddressID    uint   `json:"address_id"`
	FlatNo       string `json:"flat_no"`
	BuildingID   uint   `json:"building_id"`
	BuildingName string `json:"building_name"`
	Street       string `json:"street"`
	Zone         string `json:"zone"`
	Pincode      string `json:"pincode"`
	TypeName     string `json:"type_name"`
}

// Label renders the address as "flat_no, building_name, street".
func (v AddressView) Label() string {
	return fmt.Sprintf("%s, %s, %s", v.FlatNo, v.BuildingName, v.Street)
}
