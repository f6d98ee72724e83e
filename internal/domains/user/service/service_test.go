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
	userMocks "fleet/internal/domains/user/mocks"
	"fleet/internal/domains/user/model"
	"fleet/internal/domains/user/model/dto"
	"fleet/internal/domains/user/service"
	cacheMocks "fleet/shared/cache/mocks"
	"fleet/shared/constant"
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

func TestUserService_Update(t *testing.T) {
	current := model.User{
		ID:    "customer-id-1",
		Name:  "Jane Customer",
		Email: "jane@example.com",
		Role:  constant.RoleCustomer,
	}

	t.Run("customer updates own profile", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := userMocks.NewMockUser(ctrl)
		svc := service.New(mockRepo, bookingMocks.NewMockBooking(ctrl), &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Update(contextWithActor(current.ID, constant.RoleCustomer), dto.UpdateUserRequest{Name: "Jane C."}, current.ID)

		assert.NoError(t, err)
	})

	t.Run("customer cannot update another user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := service.New(userMocks.NewMockUser(ctrl), bookingMocks.NewMockBooking(ctrl), &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		err := svc.Update(contextWithActor("customer-id-2", constant.RoleCustomer), dto.UpdateUserRequest{Name: "Hijack"}, current.ID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("customer cannot change role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := service.New(userMocks.NewMockUser(ctrl), bookingMocks.NewMockBooking(ctrl), &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		err := svc.Update(contextWithActor(current.ID, constant.RoleCustomer), dto.UpdateUserRequest{Role: constant.RoleAdmin}, current.ID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := userMocks.NewMockUser(ctrl)
		svc := service.New(mockRepo, bookingMocks.NewMockBooking(ctrl), &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Update(contextWithActor(current.ID, constant.RoleCustomer), dto.UpdateUserRequest{Email: "Taken@Example.com"}, current.ID)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := userMocks.NewMockUser(ctrl)
		mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
		svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockBookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(contextWithActor("admin-id-1", constant.RoleAdmin), "customer-id-1")

		assert.NoError(t, err)
	})

	t.Run("user has active booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := userMocks.NewMockUser(ctrl)
		mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
		svc := service.New(mockRepo, mockBookingRepo, &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockBookingRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Delete(contextWithActor("admin-id-1", constant.RoleAdmin), "customer-id-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("user not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := userMocks.NewMockUser(ctrl)
		svc := service.New(mockRepo, bookingMocks.NewMockBooking(ctrl), &config.Config{}, newCacheMiss(ctrl), mocks.NewOtel())

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(contextWithActor("admin-id-1", constant.RoleAdmin), "missing-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
