package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salonbook/infras/otel"
	"salonbook/infras/postgres"
	"salonbook/internal/domains/catalog/model"
	gDto "salonbook/shared/dto"
	gRepo "salonbook/shared/repository"
)

// Service is read-only access to the provider service catalog.
type Service interface {
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Service, error)
}

type repositoryImpl struct {
	services gRepo.Repository[model.Service]
}

func New(db *postgres.Connection, otel otel.Otel) Service {
	return &repositoryImpl{
		services: gRepo.NewRepository[model.Service](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup) (model.Service, error) {
	return r.services.Get(ctx, filter) //nolint:wrapcheck
}
