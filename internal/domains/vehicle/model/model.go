package model

import (
	"fleet/shared/model"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID                 = "id"
	FieldVehicleName        = "vehicle_name"
	FieldType               = "type"
	FieldRegistrationNumber = "registration_number"
	FieldDailyRentPrice     = "daily_rent_price"
	FieldAvailabilityStatus = "availability_status"
)

const (
	TypeCar  = "car"
	TypeBike = "bike"
	TypeVan  = "van"
	TypeSUV  = "SUV"
)

// Availability flag values. The flag is owned by the reservation operations
// on the vehicle repository; no other write path may touch it.
const (
	AvailabilityAvailable = "available"
	AvailabilityReserved  = "reserved"
)

type Vehicle struct {
	ID                 string  `db:"id"`
	VehicleName        string  `db:"vehicle_name"`
	Type               string  `db:"type"`
	RegistrationNumber string  `db:"registration_number"`
	DailyRentPrice     float64 `db:"daily_rent_price"`
	AvailabilityStatus string  `db:"availability_status"`
	model.Metadata
}
