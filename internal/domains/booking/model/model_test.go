package model_test

import (
	"itinera/internal/domains/booking/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{model.StatusPending, model.StatusAddedToTrip, true},
		{model.StatusPending, model.StatusIgnored, true},
		{model.StatusPending, model.StatusReviewed, true},
		{model.StatusReviewed, model.StatusAddedToTrip, true},
		{model.StatusReviewed, model.StatusIgnored, true},
		{model.StatusReviewed, model.StatusPending, false},
		{model.StatusAddedToTrip, model.StatusPending, true},
		{model.StatusAddedToTrip, model.StatusAddedToTrip, false},
		{model.StatusAddedToTrip, model.StatusIgnored, false},
		{model.StatusIgnored, model.StatusPending, false},
		{model.StatusIgnored, model.StatusAddedToTrip, false},
		{model.Status("unknown"), model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusInsertable(t *testing.T) {
	assert.True(t, model.StatusPending.Insertable())
	assert.True(t, model.StatusReviewed.Insertable())
	assert.False(t, model.StatusAddedToTrip.Insertable())
	assert.False(t, model.StatusIgnored.Insertable())
	assert.False(t, model.Status("bogus").Valid())
}

func TestSourceAndType(t *testing.T) {
	assert.True(t, model.SourceGmail.FromInbox())
	assert.True(t, model.SourceOutlook.FromInbox())
	assert.False(t, model.SourceManualUpload.FromInbox())
	assert.False(t, model.Source("fax").Valid())

	assert.True(t, model.TypeCarRental.Valid())
	assert.False(t, model.Type("cruise").Valid())
}
