package repository

import (
	"context"
	"itinera/infras/otel/mocks"
	"itinera/shared/dto"
	"itinera/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	TripTitle string `db:"trip_title" table:"trips" column:"title"`
	model.Metadata
}

func (sampleRow) GetJoinQuery() string {
	return "LEFT JOIN trips ON trips.id = samples.trip_id"
}

func TestNewRepository_Columns(t *testing.T) {
	repo := NewRepository[sampleRow]("sample", "samples", "id", nil, mocks.NewOtel())

	assert.Equal(t, []string{"id", "user_id", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.Equal(t, "LEFT JOIN trips ON trips.id = samples.trip_id", repo.join)

	selectQuery := repo.getSelectQuery()
	assert.Contains(t, selectQuery, "samples.id")
	assert.Contains(t, selectQuery, "trips.title AS trip_title")
	assert.Contains(t, selectQuery, "samples.modified_by")

	assert.Equal(t, "samples.id, samples.user_id", repo.getSelectQuery("id", "user_id"))
}

func TestBuildWhereClause(t *testing.T) {
	repo := NewRepository[sampleRow]("sample", "samples", "id", nil, mocks.NewOtel())

	where, args := repo.BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "id", Value: "s-1", Operator: dto.FilterOperatorEq, Table: "samples"},
		},
	})
	assert.Equal(t, " WHERE (samples.id = :id) ", where)
	assert.Equal(t, map[string]any{"id": "s-1"}, args)
}

func TestUpdateRequiresFilter(t *testing.T) {
	repo := NewRepository[sampleRow]("sample", "samples", "id", nil, mocks.NewOtel())

	affected, err := repo.update(context.Background(), nil, map[string]any{"user_id": "u"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)
	assert.Zero(t, affected)
}
