package validator

import (
	"context"
	"errors"
	"testing"
	"time"

	reserrors "tablebot/internal/reservations/errors"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/logger"
	"tablebot/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSlotFinder struct {
	FindSlotFunc func(ctx context.Context, slot model.Slot) (*model.BookingRecord, error)
}

func (m *mockSlotFinder) FindSlot(ctx context.Context, slot model.Slot) (*model.BookingRecord, error) {
	if m.FindSlotFunc != nil {
		return m.FindSlotFunc(ctx, slot)
	}
	return nil, nil
}

// bookedSlots is a finder backed by a fixed set of bookings.
func bookedSlots(bookings ...model.BookingRecord) *mockSlotFinder {
	return &mockSlotFinder{
		FindSlotFunc: func(_ context.Context, slot model.Slot) (*model.BookingRecord, error) {
			for _, b := range bookings {
				if b.Slot() == slot {
					return &b, nil
				}
			}
			return nil, nil
		},
	}
}

func newTestValidator(t *testing.T, slots SlotFinder) *BookingValidator {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	return NewBookingValidator(slots, Options{
		Location:     loc,
		OpenMinutes:  12 * 60,
		CloseMinutes: 22 * 60,
		Now: func() time.Time {
			return time.Date(2030, 5, 1, 9, 0, 0, 0, loc)
		},
	}, logger.Discard())
}

func request(date, clock string) model.BookingRequest {
	return model.BookingRequest{Location: "1", PartySize: 4, Date: date, Time: clock}
}

func TestRoundToHour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12:00", "12:00"},
		{"12:29", "12:00"},
		{"12:30", "13:00"},
		{"18:20", "18:00"},
		{"21:59", "22:00"},
		{"22:30", "23:00"},
		{"23:30", "00:00"},
		{"00:10", "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := RoundToHour(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundToHour_Malformed(t *testing.T) {
	_, err := RoundToHour("25:61")
	assert.ErrorIs(t, err, reserrors.ErrInvalidTime)
}

func TestParseDateAndTime(t *testing.T) {
	date, err := ParseDate("2030-05-02T12:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "2030-05-02", date)

	date, err = ParseDate("2030-05-02")
	require.NoError(t, err)
	assert.Equal(t, "2030-05-02", date)

	clock, err := ParseTime("2030-05-01T18:20:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "18:20", clock, "wall clock is kept in its own offset")

	clock, err = ParseTime("18:20")
	require.NoError(t, err)
	assert.Equal(t, "18:20", clock)

	_, err = ParseDate("next tuesday")
	assert.ErrorIs(t, err, reserrors.ErrInvalidDate)
	_, err = ParseTime("evening")
	assert.ErrorIs(t, err, reserrors.ErrInvalidTime)
}

func TestBookingValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        model.BookingRequest
		wantAccept bool
		wantKind   RejectionKind
		wantReason string
		wantSlot   string
	}{
		{
			name:       "past date",
			req:        request("2030-04-30", "18:00"),
			wantKind:   KindInvalidDate,
			wantReason: ReasonPastDate,
		},
		{
			name:       "today is allowed",
			req:        request("2030-05-01", "18:00"),
			wantAccept: true,
			wantSlot:   "18:00",
		},
		{
			name:       "before opening",
			req:        request("2030-05-02", "11:59"),
			wantKind:   KindOutsideHours,
			wantReason: ReasonOutsideHours,
		},
		{
			name:       "opening boundary",
			req:        request("2030-05-02", "12:00"),
			wantAccept: true,
			wantSlot:   "12:00",
		},
		{
			name:       "closing boundary",
			req:        request("2030-05-02", "22:00"),
			wantAccept: true,
			wantSlot:   "22:00",
		},
		{
			name:       "after closing with minutes",
			req:        request("2030-05-02", "22:30"),
			wantKind:   KindOutsideHours,
			wantReason: ReasonOutsideHours,
		},
		{
			name:       "rounds down",
			req:        request("2030-05-02T00:00:00+07:00", "2030-05-01T12:29:00+07:00"),
			wantAccept: true,
			wantSlot:   "12:00",
		},
		{
			name:       "rounds up",
			req:        request("2030-05-02", "12:30"),
			wantAccept: true,
			wantSlot:   "13:00",
		},
		{
			name:       "past date wins over hours",
			req:        request("2030-01-01", "03:00"),
			wantKind:   KindInvalidDate,
			wantReason: ReasonPastDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t, &mockSlotFinder{})

			decision, err := v.Validate(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccept, decision.Accepted)
			if tt.wantAccept {
				assert.Equal(t, tt.wantSlot, decision.Slot.Time)
				assert.NotEmpty(t, decision.Summary)
				return
			}
			assert.Equal(t, tt.wantKind, decision.Kind)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestBookingValidator_Conflict(t *testing.T) {
	existing := model.BookingRecord{Location: "A", PartySize: 2, Date: "2030-05-02", Time: "18:00", CustomerID: "7"}
	v := newTestValidator(t, bookedSlots(existing))

	decision, err := v.Validate(context.Background(), model.BookingRequest{Location: "A", PartySize: 3, Date: "2030-05-02", Time: "18:20"})
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, KindSlotTaken, decision.Kind)
	assert.Equal(t, ReasonSlotTaken, decision.Reason)

	decision, err = v.Validate(context.Background(), model.BookingRequest{Location: "B", PartySize: 3, Date: "2030-05-02", Time: "18:00"})
	require.NoError(t, err)
	assert.True(t, decision.Accepted, "a different location at the same time is free")
	assert.Equal(t, model.Slot{Location: "B", Date: "2030-05-02", Time: "18:00"}, decision.Slot)
}

func TestBookingValidator_Summary(t *testing.T) {
	v := newTestValidator(t, &mockSlotFinder{})

	decision, err := v.Validate(context.Background(), model.BookingRequest{
		Location:  "2",
		PartySize: 6,
		Date:      "2030-05-03T12:00:00+07:00",
		Time:      "2030-05-01T19:40:00+07:00",
	})
	require.NoError(t, err)
	require.True(t, decision.Accepted)
	assert.Contains(t, decision.Summary, "Location: 2")
	assert.Contains(t, decision.Summary, "Party size: 6")
	assert.Contains(t, decision.Summary, "2030-05-03 19:40", "summary shows the unrounded time")
	assert.Equal(t, "20:00", decision.Slot.Time)
}

func TestBookingValidator_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		req  model.BookingRequest
	}{
		{"garbage date", request("soon", "18:00")},
		{"garbage time", request("2030-05-02", "dinner")},
		{"missing location", model.BookingRequest{PartySize: 2, Date: "2030-05-02", Time: "18:00"}},
		{"empty party", model.BookingRequest{Location: "1", Date: "2030-05-02", Time: "18:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t, &mockSlotFinder{})

			_, err := v.Validate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
		})
	}
}

func TestBookingValidator_StoreFailure(t *testing.T) {
	v := newTestValidator(t, &mockSlotFinder{
		FindSlotFunc: func(context.Context, model.Slot) (*model.BookingRecord, error) {
			return nil, errors.New("disk on fire")
		},
	})

	_, err := v.Validate(context.Background(), request("2030-05-02", "18:00"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
