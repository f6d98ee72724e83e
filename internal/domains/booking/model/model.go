package model

import (
	"time"

	"fleet/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldCustomerID    = "customer_id"
	FieldVehicleID     = "vehicle_id"
	FieldRentStartDate = "rent_start_date"
	FieldRentEndDate   = "rent_end_date"
	FieldTotalPrice    = "total_price"
	FieldStatus        = "status"
)

// Booking lifecycle. A booking starts active and moves exactly once to a
// terminal status; terminal bookings never change again.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusReturned  = "returned"
)

type Booking struct {
	ID            string    `db:"id"`
	CustomerID    string    `db:"customer_id"`
	VehicleID     string    `db:"vehicle_id"`
	RentStartDate time.Time `db:"rent_start_date"`
	RentEndDate   time.Time `db:"rent_end_date"`
	TotalPrice    float64   `db:"total_price"`
	Status        string    `db:"status"`

	CustomerName       string  `db:"customer_name"       table:"users"    column:"name"`
	CustomerEmail      string  `db:"customer_email"      table:"users"    column:"email"`
	VehicleName        string  `db:"vehicle_name"        table:"vehicles"`
	VehicleType        string  `db:"vehicle_type"        table:"vehicles" column:"type"`
	RegistrationNumber string  `db:"registration_number" table:"vehicles"`
	DailyRentPrice     float64 `db:"daily_rent_price"    table:"vehicles"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return `LEFT JOIN users ON users.id = bookings.customer_id
		LEFT JOIN vehicles ON vehicles.id = bookings.vehicle_id`
}

// IsTerminal reports whether the booking has reached a final status.
func (b Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusReturned
}
