package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"itinera/infras/otel"
	"itinera/infras/postgres"
	"itinera/internal/domains/trip/model"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	gRepo "itinera/shared/repository"
	"itinera/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Trip interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Trip, error)
	GetPrimary(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Trip, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Trip, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// ListSelectable returns the user's non-terminal trips ordered by start date.
	ListSelectable(ctx context.Context, userID string) ([]model.Trip, error)
	// UpdateItineraryTx writes trip.Itinerary only if the stored version still equals trip.Version.
	// It reports false, with no error, when another writer has moved the version on.
	UpdateItineraryTx(ctx context.Context, tx *sqlx.Tx, trip model.Trip, actor string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Trip]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Trip {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Trip](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) ListSelectable(ctx context.Context, userID string) ([]model.Trip, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".trip.ListSelectable")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.NonTerminalStatuses(), Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldStartDate, SortDir: gDto.SortDirAsc}

	trips, err := r.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list selectable trips: %w", err)
	}

	return trips, nil
}

func (r *repositoryImpl) UpdateItineraryTx(ctx context.Context, tx *sqlx.Tx, trip model.Trip, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".trip.UpdateItineraryTx")
	defer scope.End()

	scope.SetAttribute("trip.version", fmt.Sprint(trip.Version))

	mod := map[string]any{
		model.FieldItinerary:  trip.Itinerary,
		model.FieldVersion:    trip.Version + 1,
		model.FieldModifiedAt: timezone.Now(),
		model.FieldModifiedBy: actor,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: trip.ID, Operator: gDto.FilterOperatorEq},
			gDto.Filter{Field: model.FieldVersion, ArgName: model.ArgExpectedVersion, Value: trip.Version, Operator: gDto.FilterOperatorEq},
		},
	}

	affected, err := r.UpdateTx(ctx, tx, mod, filter)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update trip itinerary: %w", err)
	}

	return affected == 1, nil
}
