package dto

import (
	"time"

	"github.com/google/uuid"

	"fleet/internal/domains/booking/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gModel "fleet/shared/model"
	"fleet/shared/timezone"
)

type CreateBookingRequest struct {
	CustomerID    string `json:"customer_id"     validate:"omitempty"`
	VehicleID     string `json:"vehicle_id"      validate:"required"`
	RentStartDate string `json:"rent_start_date" validate:"required"`
	RentEndDate   string `json:"rent_end_date"   validate:"required"`
}

// ParseWindow parses the rental window. Full timestamps and plain dates are
// both accepted.
func (c *CreateBookingRequest) ParseWindow() (start, end time.Time, err error) {
	start, err = parseRentalDate(c.RentStartDate)
	if err != nil {
		return start, end, err
	}

	end, err = parseRentalDate(c.RentEndDate)

	return start, end, err
}

func parseRentalDate(value string) (time.Time, error) {
	parsed, err := timezone.Parse(constant.DateFormat, value)
	if err == nil {
		return parsed, nil
	}

	return timezone.Parse(constant.DateOnlyFormat, value)
}

func (c *CreateBookingRequest) ToModel(customerID string, start, end time.Time, totalPrice float64, user string) model.Booking {
	return model.Booking{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		VehicleID:     c.VehicleID,
		RentStartDate: start,
		RentEndDate:   end,
		TotalPrice:    totalPrice,
		Status:        model.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled returned"`
}

type CustomerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VehicleSummary struct {
	VehicleName        string  `json:"vehicle_name"`
	Type               string  `json:"type"`
	RegistrationNumber string  `json:"registration_number"`
	DailyRentPrice     float64 `json:"daily_rent_price"`
}

type BookingResponse struct {
	ID            string           `json:"id"`
	CustomerID    string           `json:"customer_id"`
	VehicleID     string           `json:"vehicle_id"`
	RentStartDate string           `json:"rent_start_date"`
	RentEndDate   string           `json:"rent_end_date"`
	TotalPrice    float64          `json:"total_price"`
	Status        string           `json:"status"`
	Customer      *CustomerSummary `json:"customer,omitempty"`
	Vehicle       *VehicleSummary  `json:"vehicle,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.VehicleID = model.VehicleID
	r.RentStartDate = timezone.Format(model.RentStartDate, constant.DateFormat)
	r.RentEndDate = timezone.Format(model.RentEndDate, constant.DateFormat)
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status

	if model.CustomerName != constant.Empty || model.CustomerEmail != constant.Empty {
		r.Customer = &CustomerSummary{
			Name:  model.CustomerName,
			Email: model.CustomerEmail,
		}
	}

	if model.VehicleName != constant.Empty || model.RegistrationNumber != constant.Empty {
		r.Vehicle = &VehicleSummary{
			VehicleName:        model.VehicleName,
			Type:               model.VehicleType,
			RegistrationNumber: model.RegistrationNumber,
			DailyRentPrice:     model.DailyRentPrice,
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
