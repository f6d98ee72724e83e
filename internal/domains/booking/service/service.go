package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"fleet/config"
	"fleet/infras/otel"
	"fleet/internal/domains/booking/model"
	"fleet/internal/domains/booking/model/dto"
	"fleet/internal/domains/booking/repository"
	userModel "fleet/internal/domains/user/model"
	userRepository "fleet/internal/domains/user/repository"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepository "fleet/internal/domains/vehicle/repository"
	"fleet/shared"
	"fleet/shared/cache"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
	"fleet/shared/timezone"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest) (dto.BookingResponse, error)
	SweepExpired(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo        repository.Booking
	vehicleRepo vehicleRepository.Vehicle
	userRepo    userRepository.User
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	now         func() time.Time
}

func New(repo repository.Booking, vehicleRepo vehicleRepository.Vehicle, userRepo userRepository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return NewWithClock(repo, vehicleRepo, userRepo, cfg, cache, otel, timezone.Now)
}

// NewWithClock injects the time source so boundary rules and the expiry sweep
// are testable without real delays.
func NewWithClock(repo repository.Booking, vehicleRepo vehicleRepository.Vehicle, userRepo userRepository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, now func() time.Time) Booking {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		now:         now,
	}
}

// Create runs the booking lifecycle: validate the window, resolve the
// customer, reserve the vehicle, then persist the booking. The reservation is
// taken before the insert; if the insert fails the vehicle is released so no
// booking ever exists without its reservation.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	act, err := actorFromContext(ctx)
	if err != nil {
		return res, err
	}

	customerID := req.CustomerID
	if customerID == constant.Empty {
		customerID = act.id
	}

	if !act.admin() && customerID != act.id {
		return res, failure.Forbidden("customers may only book for themselves") //nolint:wrapcheck
	}

	start, end, err := req.ParseWindow()
	if err != nil {
		return res, failure.BadRequestFromString("invalid rental date: "+err.Error()) //nolint:wrapcheck
	}

	if err = validateWindow(start, end); err != nil {
		return res, err
	}

	customerExist, err := s.userRepo.Exist(ctx, shared.FilterByID(customerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check customer existence")

		return res, fmt.Errorf("failed to check customer existence: %w", err)
	}

	if !customerExist {
		return res, failure.NotFound("customer not found") //nolint:wrapcheck
	}

	vehicle, err := s.vehicleRepo.Get(ctx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return res, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound("vehicle not found") //nolint:wrapcheck
	}

	reserved, err := s.vehicleRepo.TryReserve(ctx, vehicle.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to reserve vehicle")

		return res, fmt.Errorf("failed to reserve vehicle: %w", err)
	}

	if !reserved {
		return res, failure.Conflict("vehicle is not available") //nolint:wrapcheck
	}

	booking := req.ToModel(customerID, start, end, TotalPrice(start, end, vehicle.DailyRentPrice), act.id)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking, releasing vehicle")

		if rbErr := s.vehicleRepo.Release(ctx, vehicle.ID); rbErr != nil {
			log.Error().Err(rbErr).Str("vehicleID", vehicle.ID).Msg("failed to release vehicle after insert failure")
		}

		return res, err
	}

	booking.VehicleName = vehicle.VehicleName
	booking.VehicleType = vehicle.Type
	booking.RegistrationNumber = vehicle.RegistrationNumber
	booking.DailyRentPrice = vehicle.DailyRentPrice

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

// GetAll lists bookings scoped by role: admins see every booking, customers
// only their own.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	act, err := actorFromContext(ctx)
	if err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{}
	if !act.admin() {
		filter = gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldCustomerID,
					Operator: gDto.FilterOperatorEq,
					Value:    act.id,
					Table:    model.TableName,
				},
			},
		}
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	act, err := actorFromContext(ctx)
	if err != nil {
		return res, err
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if !act.admin() && booking.CustomerID != act.id {
		return res, failure.ResourceRestrictedError //nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

// UpdateStatus drives a booking into a terminal status. Eligibility is
// checked against a fresh read, then the flip itself is a conditional update
// keyed on the active status, so a racing transition loses with a conflict
// instead of double-applying.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	act, err := actorFromContext(ctx)
	if err != nil {
		return res, err
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if err = canTransition(booking, req.Status, act, s.now()); err != nil {
		return res, err
	}

	applied, err := s.repo.UpdateStatusChecked(ctx, booking.ID, model.StatusActive, req.Status, act.id)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	if !applied {
		return res, failure.Conflict("booking is no longer active") //nolint:wrapcheck
	}

	if err = s.vehicleRepo.Release(ctx, booking.VehicleID); err != nil {
		log.Error().Err(err).Str("vehicleID", booking.VehicleID).Msg("failed to release vehicle")

		return res, fmt.Errorf("failed to release vehicle: %w", err)
	}

	booking.Status = req.Status
	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

// SweepExpired returns every active booking whose rental window has elapsed.
// Each booking is handled independently: a failure on one is logged and
// skipped, and the next pass picks it up again. The conditional status flip
// keeps the sweep safe against concurrent manual transitions.
func (s *serviceImpl) SweepExpired(ctx context.Context) (swept int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".SweepExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusActive,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldRentEndDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    s.now(),
				Table:    model.TableName,
			},
		},
	}

	expired, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get expired bookings")

		return 0, fmt.Errorf("failed to get expired bookings: %w", err)
	}

	for _, booking := range expired {
		applied, err := s.repo.UpdateStatusChecked(ctx, booking.ID, model.StatusActive, model.StatusReturned, constant.ContextSystem)
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to auto-return booking")

			continue
		}

		if !applied {
			continue
		}

		if err := s.vehicleRepo.Release(ctx, booking.VehicleID); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Str("vehicleID", booking.VehicleID).Msg("failed to release vehicle on auto-return")

			continue
		}

		swept++
	}

	if swept > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
			shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		}()
	}

	return swept, nil
}
