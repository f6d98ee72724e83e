package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"fleet/internal/domains/booking/model"
	"fleet/shared"
	"fleet/shared/constant"
	"fleet/shared/failure"
)

type actor struct {
	id   string
	role string
}

func (a actor) admin() bool {
	return a.role == constant.RoleAdmin
}

func actorFromContext(ctx context.Context) (actor, error) {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if id == constant.Empty {
		return actor{}, failure.Unauthorized("missing requester identity") //nolint:wrapcheck
	}

	return actor{id: id, role: role}, nil
}

// RentalDays counts billable days for a rental window. Partial days are
// charged as full days.
func RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()

	return int(math.Ceil(hours / constant.HoursPerRentalDay))
}

// TotalPrice is fixed at creation from the rate in effect at that instant.
func TotalPrice(start, end time.Time, dailyRate float64) float64 {
	return shared.RoundCurrency(float64(RentalDays(start, end)) * dailyRate)
}

func validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return failure.BadRequestFromString("rent end date must be after rent start date") //nolint:wrapcheck
	}

	return nil
}

// canTransition enforces the booking lifecycle rules. It decides eligibility
// only; the status flip itself is a conditional update so racing transitions
// still resolve to a single winner.
func canTransition(booking model.Booking, target string, act actor, now time.Time) error {
	if booking.IsTerminal() {
		return failure.BadRequestFromString(fmt.Sprintf("booking is already %s", booking.Status)) //nolint:wrapcheck
	}

	switch target {
	case model.StatusCancelled:
		if act.admin() {
			return nil
		}

		if booking.CustomerID != act.id {
			return failure.Forbidden("only the booking owner may cancel") //nolint:wrapcheck
		}

		if !now.Before(booking.RentStartDate) {
			return failure.BadRequestFromString("booking can only be cancelled before the rental starts") //nolint:wrapcheck
		}

		return nil
	case model.StatusReturned:
		if !act.admin() {
			return failure.Forbidden("only admins may mark a booking as returned") //nolint:wrapcheck
		}

		return nil
	default:
		return failure.BadRequestFromString(fmt.Sprintf("unknown booking status: %s", target)) //nolint:wrapcheck
	}
}
