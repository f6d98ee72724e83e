package dto

import (
	"github.com/google/uuid"

	"fleet/internal/domains/vehicle/model"
	"fleet/shared"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"
)

type CreateVehicleRequest struct {
	VehicleName        string  `json:"vehicle_name"        validate:"required,max=100"`
	Type               string  `json:"type"                validate:"required,oneof=car bike van SUV"`
	RegistrationNumber string  `json:"registration_number" validate:"required,max=20"`
	DailyRentPrice     float64 `json:"daily_rent_price"    validate:"required,gt=0"`
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	return model.Vehicle{
		ID:                 uuid.NewString(),
		VehicleName:        c.VehicleName,
		Type:               c.Type,
		RegistrationNumber: c.RegistrationNumber,
		DailyRentPrice:     shared.RoundCurrency(c.DailyRentPrice),
		AvailabilityStatus: model.AvailabilityAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateVehicleRequest deliberately has no availability field. The flag is
// owned by the reservation flow and never writable through the catalog.
type UpdateVehicleRequest struct {
	VehicleName        string  `db:"vehicle_name"        json:"vehicle_name"        validate:"omitempty,max=100"`
	Type               string  `db:"type"                json:"type"                validate:"omitempty,oneof=car bike van SUV"`
	RegistrationNumber string  `db:"registration_number" json:"registration_number" validate:"omitempty,max=20"`
	DailyRentPrice     float64 `db:"daily_rent_price"    json:"daily_rent_price"    validate:"omitempty,gt=0"`
}

type VehicleResponse struct {
	ID                 string  `json:"id"`
	VehicleName        string  `json:"vehicle_name"`
	Type               string  `json:"type"`
	RegistrationNumber string  `json:"registration_number"`
	DailyRentPrice     float64 `json:"daily_rent_price"`
	AvailabilityStatus string  `json:"availability_status"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.VehicleName = model.VehicleName
	r.Type = model.Type
	r.RegistrationNumber = model.RegistrationNumber
	r.DailyRentPrice = model.DailyRentPrice
	r.AvailabilityStatus = model.AvailabilityStatus
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
