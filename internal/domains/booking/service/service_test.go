package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fleet/config"
	"fleet/infras/otel/mocks"
	bookingMocks "fleet/internal/domains/booking/mocks"
	"fleet/internal/domains/booking/model"
	"fleet/internal/domains/booking/model/dto"
	"fleet/internal/domains/booking/service"
	userMocks "fleet/internal/domains/user/mocks"
	vehicleMocks "fleet/internal/domains/vehicle/mocks"
	vehicleModel "fleet/internal/domains/vehicle/model"
	vehicleRepository "fleet/internal/domains/vehicle/repository"
	cacheMocks "fleet/shared/cache/mocks"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/failure"
)

func contextWithActor(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func newCacheMiss(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

type bookingServiceMocks struct {
	repo        *bookingMocks.MockBooking
	vehicleRepo *vehicleMocks.MockVehicle
	userRepo    *userMocks.MockUser
}

func newBookingService(ctrl *gomock.Controller, now time.Time) (service.Booking, bookingServiceMocks) {
	m := bookingServiceMocks{
		repo:        bookingMocks.NewMockBooking(ctrl),
		vehicleRepo: vehicleMocks.NewMockVehicle(ctrl),
		userRepo:    userMocks.NewMockUser(ctrl),
	}

	svc := service.NewWithClock(m.repo, m.vehicleRepo, m.userRepo, &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel(), func() time.Time { return now })

	return svc, m
}

func TestBookingService_Create(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	vehicle := vehicleModel.Vehicle{
		ID:                 "vehicle-id-123",
		VehicleName:        "Toyota Avanza",
		Type:               vehicleModel.TypeCar,
		RegistrationNumber: "B 1234 XYZ",
		DailyRentPrice:     50,
		AvailabilityStatus: vehicleModel.AvailabilityAvailable,
	}

	req := dto.CreateBookingRequest{
		VehicleID:     vehicle.ID,
		RentStartDate: "2025-06-02T10:00:00Z",
		RentEndDate:   "2025-06-05T10:00:00Z",
	}

	t.Run("successful create charges three days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.vehicleRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
		m.vehicleRepo.EXPECT().TryReserve(gomock.Any(), vehicle.ID).Return(true, nil)
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, "customer-id-1", booking.CustomerID)
				assert.Equal(t, model.StatusActive, booking.Status)
				assert.InDelta(t, 150.0, booking.TotalPrice, 0.001)

				return nil
			})

		res, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), req)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusActive, res.Status)
		assert.InDelta(t, 150.0, res.TotalPrice, 0.001)

		if assert.NotNil(t, res.Vehicle) {
			assert.Equal(t, vehicle.RegistrationNumber, res.Vehicle.RegistrationNumber)
		}
	})

	t.Run("vehicle not available", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.vehicleRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
		m.vehicleRepo.EXPECT().TryReserve(gomock.Any(), vehicle.ID).Return(false, nil)

		_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("insert failure releases the vehicle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.vehicleRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicle, nil)
		m.vehicleRepo.EXPECT().TryReserve(gomock.Any(), vehicle.ID).Return(true, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		m.vehicleRepo.EXPECT().Release(gomock.Any(), vehicle.ID).Return(nil)

		_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), req)

		assert.Error(t, err)
	})

	t.Run("customer cannot book for someone else", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newBookingService(ctrl, now)

		other := req
		other.CustomerID = "customer-id-2"

		_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), other)

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("end date before start date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newBookingService(ctrl, now)

		inverted := req
		inverted.RentStartDate = "2025-06-05T10:00:00Z"
		inverted.RentEndDate = "2025-06-02T10:00:00Z"

		_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), inverted)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing requester identity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newBookingService(ctrl, now)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("customer not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	activeBooking := model.Booking{
		ID:            "booking-id-123",
		CustomerID:    "customer-id-1",
		VehicleID:     "vehicle-id-123",
		RentStartDate: now.Add(24 * time.Hour),
		RentEndDate:   now.Add(72 * time.Hour),
		TotalPrice:    150,
		Status:        model.StatusActive,
	}

	t.Run("owner cancels before rental starts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking, nil)
		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), activeBooking.ID, model.StatusActive, model.StatusCancelled, "customer-id-1").
			Return(true, nil)
		m.vehicleRepo.EXPECT().Release(gomock.Any(), activeBooking.VehicleID).Return(nil)

		res, err := svc.UpdateStatus(contextWithActor("customer-id-1", constant.RoleCustomer), activeBooking.ID, dto.UpdateBookingStatusRequest{Status: model.StatusCancelled})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
	})

	t.Run("cancel rejected once the rental has started", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		started := activeBooking
		started.RentStartDate = now

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(started, nil)

		_, err := svc.UpdateStatus(contextWithActor("customer-id-1", constant.RoleCustomer), started.ID, dto.UpdateBookingStatusRequest{Status: model.StatusCancelled})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("admin cancels a started rental", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		started := activeBooking
		started.RentStartDate = now.Add(-time.Hour)

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(started, nil)
		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), started.ID, model.StatusActive, model.StatusCancelled, "admin-id-1").
			Return(true, nil)
		m.vehicleRepo.EXPECT().Release(gomock.Any(), started.VehicleID).Return(nil)

		_, err := svc.UpdateStatus(contextWithActor("admin-id-1", constant.RoleAdmin), started.ID, dto.UpdateBookingStatusRequest{Status: model.StatusCancelled})

		assert.NoError(t, err)
	})

	t.Run("customer cannot mark returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking, nil)

		_, err := svc.UpdateStatus(contextWithActor("customer-id-1", constant.RoleCustomer), activeBooking.ID, dto.UpdateBookingStatusRequest{Status: model.StatusReturned})

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("terminal booking rejects any transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cancelled := activeBooking
		cancelled.Status = model.StatusCancelled

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		_, err := svc.UpdateStatus(contextWithActor("admin-id-1", constant.RoleAdmin), cancelled.ID, dto.UpdateBookingStatusRequest{Status: model.StatusReturned})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("stale transition surfaces a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeBooking, nil)
		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), activeBooking.ID, model.StatusActive, model.StatusReturned, "admin-id-1").
			Return(false, nil)

		_, err := svc.UpdateStatus(contextWithActor("admin-id-1", constant.RoleAdmin), activeBooking.ID, dto.UpdateBookingStatusRequest{Status: model.StatusReturned})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("booking not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.UpdateStatus(contextWithActor("admin-id-1", constant.RoleAdmin), "missing-id", dto.UpdateBookingStatusRequest{Status: model.StatusReturned})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_SweepExpired(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	expired := []model.Booking{
		{ID: "booking-1", VehicleID: "vehicle-1", Status: model.StatusActive, RentEndDate: now.Add(-time.Hour)},
		{ID: "booking-2", VehicleID: "vehicle-2", Status: model.StatusActive, RentEndDate: now.Add(-2 * time.Hour)},
		{ID: "booking-3", VehicleID: "vehicle-3", Status: model.StatusActive, RentEndDate: now.Add(-3 * time.Hour)},
	}

	t.Run("per-item failures do not stop the sweep", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(expired, nil)

		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), "booking-1", model.StatusActive, model.StatusReturned, constant.ContextSystem).
			Return(true, nil)
		m.vehicleRepo.EXPECT().Release(gomock.Any(), "vehicle-1").Return(nil)

		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), "booking-2", model.StatusActive, model.StatusReturned, constant.ContextSystem).
			Return(false, errors.New("store unavailable"))

		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), "booking-3", model.StatusActive, model.StatusReturned, constant.ContextSystem).
			Return(true, nil)
		m.vehicleRepo.EXPECT().Release(gomock.Any(), "vehicle-3").Return(nil)

		swept, err := svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, swept)
	})

	t.Run("booking already transitioned is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(expired[:1], nil)
		m.repo.EXPECT().
			UpdateStatusChecked(gomock.Any(), "booking-1", model.StatusActive, model.StatusReturned, constant.ContextSystem).
			Return(false, nil)

		swept, err := svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, swept)
	})

	t.Run("nothing expired", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newBookingService(ctrl, now)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		swept, err := svc.SweepExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, swept)
	})
}

func TestRentalPricing(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		rate float64
		want float64
	}{
		{name: "exact three days", end: start.Add(72 * time.Hour), rate: 50, want: 150},
		{name: "partial day rounds up", end: start.Add(60 * time.Hour), rate: 50, want: 150},
		{name: "single hour counts as a day", end: start.Add(time.Hour), rate: 49.99, want: 49.99},
		{name: "rounding to cents", end: start.Add(72 * time.Hour), rate: 33.333, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, service.TotalPrice(start, tt.end, tt.rate), 0.001)
		})
	}
}

// fakeVehicleStore is a minimal in-memory reservation store whose TryReserve
// uses compare-and-swap, mirroring the conditional-update behavior of the
// real repository.
type fakeVehicleStore struct {
	vehicle  vehicleModel.Vehicle
	reserved atomic.Bool
}

var _ vehicleRepository.Vehicle = (*fakeVehicleStore)(nil)

func (f *fakeVehicleStore) Insert(_ context.Context, _ vehicleModel.Vehicle) error { return nil }

func (f *fakeVehicleStore) Get(_ context.Context, _ gDto.FilterGroup, _ ...string) (vehicleModel.Vehicle, error) {
	return f.vehicle, nil
}

func (f *fakeVehicleStore) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]vehicleModel.Vehicle, error) {
	return []vehicleModel.Vehicle{f.vehicle}, nil
}

func (f *fakeVehicleStore) Exist(_ context.Context, _ gDto.FilterGroup) (bool, error) {
	return true, nil
}

func (f *fakeVehicleStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) { return 1, nil }

func (f *fakeVehicleStore) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return nil
}

func (f *fakeVehicleStore) Delete(_ context.Context, _ gDto.FilterGroup) error { return nil }

func (f *fakeVehicleStore) TryReserve(_ context.Context, _ string) (bool, error) {
	return f.reserved.CompareAndSwap(false, true), nil
}

func (f *fakeVehicleStore) Release(_ context.Context, _ string) error {
	f.reserved.Store(false)

	return nil
}

func TestBookingService_Create_OneWinnerUnderContention(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	store := &fakeVehicleStore{
		vehicle: vehicleModel.Vehicle{
			ID:                 "vehicle-id-123",
			VehicleName:        "Toyota Avanza",
			DailyRentPrice:     50,
			AvailabilityStatus: vehicleModel.AvailabilityAvailable,
		},
	}

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	svc := service.NewWithClock(mockRepo, store, mockUserRepo, &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel(), func() time.Time { return now })

	req := dto.CreateBookingRequest{
		VehicleID:     "vehicle-id-123",
		RentStartDate: "2025-06-02T10:00:00Z",
		RentEndDate:   "2025-06-05T10:00:00Z",
	}

	const racers = 32

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := range racers {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			_, err := svc.Create(contextWithActor("customer-id-1", constant.RoleCustomer), req)
			if err == nil {
				successes.Add(1)

				return
			}

			if failure.GetCode(err) == http.StatusConflict {
				conflicts.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(racers-1), conflicts.Load())
}
