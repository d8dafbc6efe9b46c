package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"itinera/infras/otel"
	"itinera/infras/postgres"
	"itinera/internal/domains/booking/model"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	gRepo "itinera/shared/repository"
	"itinera/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetPrimary(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// FindBySource looks up an earlier ingestion of the same inbox message. It reads the primary
	// so a record committed a moment ago is never missed.
	FindBySource(ctx context.Context, userID string, source model.Source, messageID string) (model.Booking, error)
	// UpdateStatus persists the status, trip and conflict fields of booking, provided the stored
	// status still equals expected. It reports false when the row moved on in the meantime.
	UpdateStatus(ctx context.Context, booking model.Booking, expected model.Status, actor string) (bool, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, expected model.Status, actor string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) FindBySource(ctx context.Context, userID string, source model.Source, messageID string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindBySource")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldSource, Value: string(source), Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldSourceMessageID, Value: messageID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	booking, err := r.GetPrimary(ctx, filter)
	if err != nil {
		scope.TraceError(err)

		return booking, fmt.Errorf("failed to find booking by source: %w", err)
	}

	return booking, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, booking model.Booking, expected model.Status, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()

	affected, err := r.Update(ctx, statusFields(booking, actor), statusFilter(booking.ID, expected))
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	return affected == 1, nil
}

func (r *repositoryImpl) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, expected model.Status, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusTx")
	defer scope.End()

	affected, err := r.UpdateTx(ctx, tx, statusFields(booking, actor), statusFilter(booking.ID, expected))
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	return affected == 1, nil
}

func statusFields(booking model.Booking, actor string) map[string]any {
	return map[string]any{
		model.FieldStatus:           booking.Status,
		model.FieldTripID:           booking.TripID,
		model.FieldConflictDetected: booking.ConflictDetected,
		model.FieldModifiedAt:       timezone.Now(),
		model.FieldModifiedBy:       actor,
	}
}

func statusFilter(id string, expected model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq},
			gDto.Filter{Field: model.FieldStatus, ArgName: model.ArgExpectedStatus, Value: expected, Operator: gDto.FilterOperatorEq},
		},
	}
}
