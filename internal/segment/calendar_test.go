package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestFestivePeriod_Contains(t *testing.T) {
	tests := []struct {
		name   string
		period FestivePeriod
		date   time.Time
		want   bool
	}{
		{
			name:   "inside same-month period",
			period: FestivePeriod{StartMonth: 5, StartDay: 1, EndMonth: 5, EndDay: 31},
			date:   date(2024, 5, 15),
			want:   true,
		},
		{
			name:   "day before same-month period",
			period: FestivePeriod{StartMonth: 5, StartDay: 10, EndMonth: 5, EndDay: 31},
			date:   date(2024, 5, 9),
			want:   false,
		},
		{
			name:   "multi-month period middle month",
			period: FestivePeriod{StartMonth: 1, StartDay: 15, EndMonth: 3, EndDay: 10},
			date:   date(2024, 2, 1),
			want:   true,
		},
		{
			name:   "multi-month period end boundary",
			period: FestivePeriod{StartMonth: 1, StartDay: 15, EndMonth: 3, EndDay: 10},
			date:   date(2024, 3, 10),
			want:   true,
		},
		{
			name:   "multi-month period past end day",
			period: FestivePeriod{StartMonth: 1, StartDay: 15, EndMonth: 3, EndDay: 10},
			date:   date(2024, 3, 11),
			want:   false,
		},
		{
			name:   "year-wrapping period december side",
			period: FestivePeriod{StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 15},
			date:   date(2024, 12, 20),
			want:   true,
		},
		{
			name:   "year-wrapping period january side",
			period: FestivePeriod{StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 15},
			date:   date(2025, 1, 10),
			want:   true,
		},
		{
			name:   "year-wrapping period before start day",
			period: FestivePeriod{StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 15},
			date:   date(2024, 12, 10),
			want:   false,
		},
		{
			name:   "year-wrapping period after end day",
			period: FestivePeriod{StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 15},
			date:   date(2025, 1, 16),
			want:   false,
		},
		{
			name:   "long wrap covers whole months between",
			period: FestivePeriod{StartMonth: 11, StartDay: 20, EndMonth: 2, EndDay: 5},
			date:   date(2024, 12, 1),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Contains(tt.date))
		})
	}
}

func TestFestivePeriod_Wraps(t *testing.T) {
	assert.True(t, FestivePeriod{StartMonth: 12, EndMonth: 1}.Wraps())
	assert.False(t, FestivePeriod{StartMonth: 4, EndMonth: 4}.Wraps())
	assert.False(t, FestivePeriod{StartMonth: 6, EndMonth: 7}.Wraps())
}

func TestDefaultCalendar(t *testing.T) {
	calendar := DefaultCalendar()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"christmas season", date(2024, 12, 25), true},
		{"new year spillover", date(2025, 1, 5), true},
		{"back to school late january", date(2024, 1, 20), true},
		{"avurudu", date(2024, 4, 14), true},
		{"vesak", date(2024, 5, 23), true},
		{"mid year sales", date(2024, 6, 20), true},
		{"mid february gap", date(2024, 2, 20), false},
		{"march gap", date(2024, 3, 15), false},
		{"september gap", date(2024, 9, 1), false},
		{"early december gap", date(2024, 12, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.Contains(tt.date))
		})
	}
}
