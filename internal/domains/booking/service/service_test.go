package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"itinera/config"
	"itinera/infras/otel/mocks"
	bookingMocks "itinera/internal/domains/booking/mocks"
	"itinera/internal/domains/booking/model"
	"itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/booking/service"
	"itinera/shared/cache"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/failure"
)

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func newService(t *testing.T, repo *bookingMocks.MockBooking) service.Booking {
	t.Helper()

	svc, _ := newServiceWithServer(t, repo)

	return svc
}

func newServiceWithServer(t *testing.T, repo *bookingMocks.MockBooking) (service.Booking, *miniredis.Miniredis) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	redisCache, server := newCache(t)

	return service.New(repo, cfg, redisCache, mocks.NewOtel()), server
}

func userContext(user string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, user)
}

func booking(status model.Status) model.Booking {
	return model.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		BookingType:   model.TypeHotel,
		Title:         "Hotel Avenida",
		Confidence:    0.9,
		Status:        status,
		Source:        model.SourceGmail,
		ExtractedData: []byte(`{}`),
	}
}

func TestBookingService_Get(t *testing.T) {
	t.Run("owner reads booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		repo.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)

		res, err := newService(t, repo).Get(userContext("user-1"), "booking-1")
		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, "hotel", res.BookingType)
	})

	t.Run("foreign booking is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		repo.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)

		_, err := newService(t, repo).Get(userContext("user-2"), "booking-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		repo.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("database error"))

		_, err := newService(t, repo).Get(userContext("user-1"), "booking-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{booking(model.StatusPending), booking(model.StatusReviewed)}, nil)

	res, err := newService(t, repo).GetAll(userContext("user-1"), gDto.QueryParams{Page: 1, Limit: 10}, dto.GetBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, 1, res.Pagination.TotalPage)
}

func TestBookingService_GetAllError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

	_, err := newService(t, repo).GetAll(userContext("user-1"), gDto.QueryParams{Page: 1, Limit: 10}, dto.GetBookingsRequest{})
	assert.Error(t, err)
}

func TestBookingService_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       model.Status
		action     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error)
		want       model.Status
		updated    bool
		updateErr  error
		wantUpdate bool
		wantCode   int
	}{
		{
			name:       "review pending booking",
			from:       model.StatusPending,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Review(ctx, "booking-1") },
			want:       model.StatusReviewed,
			updated:    true,
			wantUpdate: true,
		},
		{
			name:       "ignore reviewed booking",
			from:       model.StatusReviewed,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Ignore(ctx, "booking-1") },
			want:       model.StatusIgnored,
			updated:    true,
			wantUpdate: true,
		},
		{
			name:     "review merged booking is rejected",
			from:     model.StatusAddedToTrip,
			action:   func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Review(ctx, "booking-1") },
			wantCode: http.StatusConflict,
		},
		{
			name:     "ignore ignored booking is rejected",
			from:     model.StatusIgnored,
			action:   func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Ignore(ctx, "booking-1") },
			wantCode: http.StatusConflict,
		},
		{
			name:       "concurrent change loses",
			from:       model.StatusPending,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Ignore(ctx, "booking-1") },
			updated:    false,
			wantUpdate: true,
			wantCode:   http.StatusConflict,
		},
		{
			name:       "persistence failure",
			from:       model.StatusPending,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Review(ctx, "booking-1") },
			updateErr:  errors.New("database error"),
			wantUpdate: true,
			wantCode:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := bookingMocks.NewMockBooking(ctrl)

			repo.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking(tt.from), nil)

			if tt.wantUpdate {
				repo.EXPECT().
					UpdateStatus(gomock.Any(), gomock.Any(), tt.from, "user-1").
					Return(tt.updated, tt.updateErr)
			}

			res, err := tt.action(newService(t, repo), userContext("user-1"))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.want), res.Status)
		})
	}
}

func TestBookingService_TransitionClearsCachedReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)
	svc, server := newServiceWithServer(t, repo)

	require.NoError(t, server.Set("booking:get:booking-1", `{"id":"booking-1","userId":"user-1","status":"pending"}`))
	require.NoError(t, server.Set("booking:gets:1:10:created_at:desc", `{"items":[]}`))
	require.NoError(t, server.Set("booking:get:booking-2", `{"id":"booking-2"}`))

	repo.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), model.StatusPending, "user-1").Return(true, nil)

	res, err := svc.Review(userContext("user-1"), "booking-1")
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusReviewed), res.Status)

	assert.False(t, server.Exists("booking:get:booking-1"))
	assert.False(t, server.Exists("booking:gets:1:10:created_at:desc"))
	assert.True(t, server.Exists("booking:get:booking-2"))
}
