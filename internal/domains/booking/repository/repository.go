package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"salonbook/infras/otel"
	"salonbook/infras/postgres"
	"salonbook/internal/domains/booking/model"
	"salonbook/shared/constant"
	gDto "salonbook/shared/dto"
	"salonbook/shared/logger"
	gRepo "salonbook/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingNumberConstraint = "bookings_booking_number_key"

var (
	// ErrSlotTaken is returned when the store rejects a write that would overlap a confirmed booking.
	ErrSlotTaken = errors.New("time slot already taken")
	// ErrDuplicateNumber is returned when a generated booking number already exists.
	ErrDuplicateNumber = errors.New("booking number already exists")
	// ErrStaleWrite is returned when an update filter matched no row, usually
	// because another request changed the booking's status first.
	ErrStaleWrite = errors.New("booking was changed by another request")
)

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Booking, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// Update fails with ErrStaleWrite when the filter matches no booking.
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, query model.OverlapQuery) ([]model.Booking, error)
	// Atomic runs fn while holding the provider's scheduling lock. Writes made
	// through the repository passed to fn commit or roll back together.
	Atomic(ctx context.Context, providerID string, fn func(ctx context.Context, repo Booking) error) error
}

type selecter interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type repositoryImpl struct {
	bookings gRepo.Repository[model.Booking]
	details  gRepo.Repository[model.BookingDetail]
	db       *postgres.Connection
	tx       *sqlx.Tx
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		bookings: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		details:  gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:       db,
		otel:     otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	return mapError(r.bookings.Insert(ctx, booking))
}

func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup) (model.Booking, error) {
	return r.bookings.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	return r.details.Get(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.details.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.bookings.Count(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error {
	return updated(r.bookings.Update(ctx, fields, filter))
}

func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	return r.bookings.Delete(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) FindOverlapping(ctx context.Context, query model.OverlapQuery) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()

	sqlQuery, args, err := buildOverlapQuery(r.bookings.InsertColumns, query)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build overlap query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	var exec selecter = r.db.Read
	if r.tx != nil {
		exec = r.tx
	}

	var bookings []model.Booking

	if err = exec.SelectContext(ctx, &bookings, sqlQuery, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) Atomic(ctx context.Context, providerID string, fn func(ctx context.Context, repo Booking) error) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Atomic")
	defer scope.End()

	if r.tx != nil {
		return fn(ctx, r)
	}

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := postgres.AdvisoryXactLock(ctx, tx, providerID); err != nil {
			return err //nolint:wrapcheck
		}

		return fn(ctx, &repositoryImpl{
			bookings: r.bookings.WithTx(tx),
			details:  r.details.WithTx(tx),
			db:       r.db,
			tx:       tx,
			otel:     r.otel,
		})
	})

	scope.TraceIfError(err)

	return err //nolint:wrapcheck
}

// buildOverlapQuery selects bookings of one provider whose window intersects
// [query.Start, query.End) using the half-open test start < end AND end > start.
func buildOverlapQuery(columns []string, query model.OverlapQuery) (string, []any, error) {
	builder := sq.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldProviderID: query.ProviderID}).
		Where(sq.Lt{model.FieldStartDateTime: query.End}).
		Where(sq.Gt{model.FieldEndDateTime: query.Start}).
		OrderBy(model.FieldStartDateTime + " ASC").
		PlaceholderFormat(sq.Dollar)

	if len(query.Statuses) > 0 {
		builder = builder.Where(sq.Eq{model.FieldStatus: model.StatusStrings(query.Statuses)})
	}

	if len(query.ExcludeStatuses) > 0 {
		builder = builder.Where(sq.NotEq{model.FieldStatus: model.StatusStrings(query.ExcludeStatuses)})
	}

	if query.ExcludeID != constant.Empty {
		builder = builder.Where(sq.NotEq{model.FieldID: query.ExcludeID})
	}

	return builder.ToSql() //nolint:wrapcheck
}

func updated(affected int64, err error) error {
	if err != nil {
		return mapError(err)
	}

	if affected == 0 {
		return ErrStaleWrite
	}

	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeExclusionViolation:
		return fmt.Errorf("%w: %s", ErrSlotTaken, pqErr.Message)
	case constant.PqErrorCodeUniqueViolation:
		if pqErr.Constraint == bookingNumberConstraint {
			return fmt.Errorf("%w: %s", ErrDuplicateNumber, pqErr.Message)
		}
	}

	return err
}
