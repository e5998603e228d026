package diagnosing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDeriveWindowsRolling28(t *testing.T) {
	tests := []struct {
		name          string
		asOf          time.Time
		wantStart     time.Time
		wantEnd       time.Time
		wantPrevStart time.Time
		wantPrevEnd   time.Time
	}{
		{
			name:          "meio do mês",
			asOf:          time.Date(2025, time.June, 15, 12, 34, 56, 0, time.UTC),
			wantStart:     date(2025, time.May, 18),
			wantEnd:       date(2025, time.June, 14),
			wantPrevStart: date(2025, time.April, 20),
			wantPrevEnd:   date(2025, time.May, 17),
		},
		{
			name:          "virada de ano",
			asOf:          date(2025, time.January, 5),
			wantStart:     date(2024, time.December, 8),
			wantEnd:       date(2025, time.January, 4),
			wantPrevStart: date(2024, time.November, 10),
			wantPrevEnd:   date(2024, time.December, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, previous := DeriveWindows(domain.ComparisonModeRolling28, tt.asOf)

			assert.Equal(t, tt.wantStart, current.Start)
			assert.Equal(t, tt.wantEnd, current.End)
			assert.Equal(t, tt.wantPrevStart, previous.Start)
			assert.Equal(t, tt.wantPrevEnd, previous.End)

			// As duas janelas têm sempre os mesmos 28 dias.
			assert.Equal(t, 27*24*time.Hour, current.End.Sub(current.Start))
			assert.Equal(t, 27*24*time.Hour, previous.End.Sub(previous.Start))
		})
	}
}

func TestDeriveWindowsFullMonth(t *testing.T) {
	tests := []struct {
		name          string
		asOf          time.Time
		wantStart     time.Time
		wantEnd       time.Time
		wantPrevStart time.Time
		wantPrevEnd   time.Time
	}{
		{
			name:          "meio do mês",
			asOf:          date(2025, time.June, 15),
			wantStart:     date(2025, time.June, 1),
			wantEnd:       date(2025, time.June, 15),
			wantPrevStart: date(2025, time.May, 1),
			wantPrevEnd:   date(2025, time.May, 15),
		},
		{
			name:          "primeiro dia do mês",
			asOf:          date(2025, time.June, 1),
			wantStart:     date(2025, time.June, 1),
			wantEnd:       date(2025, time.June, 1),
			wantPrevStart: date(2025, time.May, 1),
			wantPrevEnd:   date(2025, time.May, 1),
		},
		{
			name:          "mês anterior mais curto prende no último dia",
			asOf:          date(2025, time.March, 30),
			wantStart:     date(2025, time.March, 1),
			wantEnd:       date(2025, time.March, 30),
			wantPrevStart: date(2025, time.February, 1),
			wantPrevEnd:   date(2025, time.February, 28),
		},
		{
			name:          "fevereiro bissexto",
			asOf:          date(2024, time.March, 31),
			wantStart:     date(2024, time.March, 1),
			wantEnd:       date(2024, time.March, 31),
			wantPrevStart: date(2024, time.February, 1),
			wantPrevEnd:   date(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, previous := DeriveWindows(domain.ComparisonModeFullMonth, tt.asOf)

			assert.Equal(t, tt.wantStart, current.Start)
			assert.Equal(t, tt.wantEnd, current.End)
			assert.Equal(t, tt.wantPrevStart, previous.Start)
			assert.Equal(t, tt.wantPrevEnd, previous.End)
		})
	}
}
