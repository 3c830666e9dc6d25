package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salonbook/infras/otel"
	"salonbook/infras/postgres"
	"salonbook/internal/domains/provider/model"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	gRepo "salonbook/shared/repository"
	"time"
)

// Provider is read-only access to provider records and their working hours.
type Provider interface {
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Provider, error)
	FindActiveWorkingHours(ctx context.Context, providerID string, weekday time.Weekday) (model.WorkingHours, bool, error)
}

type repositoryImpl struct {
	providers    gRepo.Repository[model.Provider]
	workingHours gRepo.Repository[model.WorkingHours]
	otel         otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Provider {
	return &repositoryImpl{
		providers:    gRepo.NewRepository[model.Provider](model.EntityName, model.TableName, model.FieldID, db, otel),
		workingHours: gRepo.NewRepository[model.WorkingHours](model.WorkingHoursEntity, model.WorkingHoursTableName, model.FieldID, db, otel),
		otel:         otel,
	}
}

func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup) (model.Provider, error) {
	return r.providers.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) FindActiveWorkingHours(ctx context.Context, providerID string, weekday time.Weekday) (model.WorkingHours, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".provider.FindActiveWorkingHours")
	defer scope.End()

	filter := gDto.NewFilterGroup(
		gDto.Filter{Field: model.FieldProviderID, Value: providerID, Operator: gDto.FilterOperatorEq, Table: model.WorkingHoursTableName},
		gDto.Filter{Field: model.FieldDayOfWeek, Value: int(weekday), Operator: gDto.FilterOperatorEq, Table: model.WorkingHoursTableName},
		gDto.Filter{Field: model.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.WorkingHoursTableName},
	)

	hours, err := r.workingHours.Get(ctx, filter)
	if err != nil {
		scope.TraceError(err)

		return hours, false, err //nolint:wrapcheck
	}

	return hours, hours.ID != constant.Empty, nil
}
