package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/vehicle/model"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gRepo "fleet/shared/repository"
	"fleet/shared/timezone"
)

type Vehicle interface {
	Insert(ctx context.Context, model model.Vehicle) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Vehicle, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Vehicle, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	TryReserve(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Vehicle]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Vehicle {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Vehicle](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// TryReserve flips the availability flag from available to reserved as one
// conditional statement. The result reports whether this caller won the flag;
// a false result means the vehicle was not available at the time the store
// evaluated the condition.
func (repo *repositoryImpl) TryReserve(ctx context.Context, id string) (bool, error) {
	mod := map[string]any{
		model.FieldAvailabilityStatus: model.AvailabilityReserved,
		constant.FieldModifiedAt:      timezone.Now(),
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				// ArgName keeps the condition argument from colliding with
				// the updated column of the same name.
				ArgName:  "current_availability_status",
				Field:    model.FieldAvailabilityStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.AvailabilityAvailable,
				Table:    model.TableName,
			},
		},
	}

	return repo.UpdateChecked(ctx, mod, filter) //nolint:wrapcheck
}

// Release unconditionally sets the availability flag back to available.
// Releasing an already-available vehicle is a no-op, not an error.
func (repo *repositoryImpl) Release(ctx context.Context, id string) error {
	mod := map[string]any{
		model.FieldAvailabilityStatus: model.AvailabilityAvailable,
		constant.FieldModifiedAt:      timezone.Now(),
	}

	return repo.Repository.Update(ctx, mod, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
		},
	}) //nolint:wrapcheck
}
