package dto

import (
	"itinera/internal/domains/trip/model"
	"itinera/shared"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
)

type TripResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Status    string          `json:"status"`
	Version   int64           `json:"version"`
	Itinerary model.Itinerary `json:"itinerary"`
	gDto.Metadata
}

func (r *TripResponse) FromModel(trip model.Trip) {
	r.ID = trip.ID
	r.UserID = trip.UserID
	r.Name = trip.Name
	r.StartDate = trip.StartDate.Format(constant.DateOnly)
	r.EndDate = trip.EndDate.Format(constant.DateOnly)
	r.Status = string(trip.Status)
	r.Version = trip.Version
	r.Itinerary = trip.Itinerary
	r.Metadata.FromModel(trip.Metadata)
}

// TripSummary is the list view; it leaves the itinerary out.
type TripSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	DayCount  int    `json:"day_count"`
}

func (r *TripSummary) FromModel(trip model.Trip) {
	r.ID = trip.ID
	r.Name = trip.Name
	r.StartDate = trip.StartDate.Format(constant.DateOnly)
	r.EndDate = trip.EndDate.Format(constant.DateOnly)
	r.Status = string(trip.Status)
	r.DayCount = len(trip.Itinerary.Days)
}

type GetTripsResponse struct {
	Trips      []TripSummary   `json:"trips"`
	Pagination gDto.Pagination `json:"pagination"`
}

func (r *GetTripsResponse) FromModels(models []model.Trip, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params, total, shared.CalculateTotalPage(total, params.Limit))

	r.Trips = make([]TripSummary, len(models))
	for i, mod := range models {
		r.Trips[i].FromModel(mod)
	}
}

type GetTripsRequest struct {
	Status string `validate:"omitempty,oneof=draft planning upcoming active completed archived cancelled"`
}

// ToFilter scopes the listing to userID and, when set, a single status.
func (r GetTripsRequest) ToFilter(userID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if r.Status != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: r.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}
