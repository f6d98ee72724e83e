package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fleet/config"
	"fleet/infras/otel/mocks"
	bookingMocks "fleet/internal/domains/booking/mocks"
	cacheMocks "fleet/shared/cache/mocks"
	"fleet/shared/failure"

	vehicleMocks "fleet/internal/domains/vehicle/mocks"
	"fleet/internal/domains/vehicle/model"
	"fleet/internal/domains/vehicle/model/dto"
	"fleet/internal/domains/vehicle/service"
)

func newCacheMiss(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

func TestVehicleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mockOtel)

	req := dto.CreateVehicleRequest{
		VehicleName:        "Toyota Avanza",
		Type:               model.TypeCar,
		RegistrationNumber: "B 1234 XYZ",
		DailyRentPrice:     50,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful create",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod model.Vehicle) error {
						assert.Equal(t, model.AvailabilityAvailable, mod.AvailabilityStatus)
						assert.NotEmpty(t, mod.ID)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "duplicate registration number",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "insert error",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVehicleService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mockOtel)

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{
				ID:                 "vehicle-id-123",
				VehicleName:        "Toyota Avanza",
				AvailabilityStatus: model.AvailabilityAvailable,
			}, nil)

		res, err := svc.Get(context.Background(), "vehicle-id-123")

		assert.NoError(t, err)
		assert.Equal(t, "vehicle-id-123", res.ID)
		assert.Equal(t, model.AvailabilityAvailable, res.AvailabilityStatus)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{}, nil)

		_, err := svc.Get(context.Background(), "missing-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mockOtel)

	current := model.Vehicle{
		ID:                 "vehicle-id-123",
		VehicleName:        "Toyota Avanza",
		RegistrationNumber: "B 1234 XYZ",
	}

	t.Run("successful update", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod map[string]any, _ interface{}) error {
				assert.NotContains(t, mod, model.FieldAvailabilityStatus)

				return nil
			})

		err := svc.Update(context.Background(), dto.UpdateVehicleRequest{VehicleName: "Toyota Veloz"}, current.ID)

		assert.NoError(t, err)
	})

	t.Run("vehicle not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Vehicle{}, nil)

		err := svc.Update(context.Background(), dto.UpdateVehicleRequest{VehicleName: "Toyota Veloz"}, "missing-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("registration number taken", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(context.Background(), dto.UpdateVehicleRequest{RegistrationNumber: "B 9999 ZZZ"}, current.ID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestVehicleService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := vehicleMocks.NewMockVehicle(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mockOtel)

	t.Run("successful delete", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockBookingRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(context.Background(), "vehicle-id-123")

		assert.NoError(t, err)
	})

	t.Run("vehicle not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), "missing-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("vehicle has active booking", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockBookingRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Delete(context.Background(), "vehicle-id-123")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
