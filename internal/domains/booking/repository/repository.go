package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fleet/infras/otel"
	"fleet/infras/postgres"
	"fleet/internal/domains/booking/model"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	gRepo "fleet/shared/repository"
	"fleet/shared/timezone"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateStatusChecked(ctx context.Context, id, current, next, modifiedBy string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// UpdateStatusChecked moves the booking from the current status to the next
// one as a single conditional statement. A false result means the booking was
// no longer in the expected status when the store evaluated the condition, so
// the transition was already taken by someone else.
func (repo *repositoryImpl) UpdateStatusChecked(ctx context.Context, id, current, next, modifiedBy string) (bool, error) {
	mod := map[string]any{
		model.FieldStatus:        next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: modifiedBy,
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
				ArgName:  "current_status",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    current,
				Table:    model.TableName,
			},
		},
	}

	return repo.UpdateChecked(ctx, mod, filter) //nolint:wrapcheck
}
