package diagnosing

import (
	"time"

	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// PeriodWindow é uma janela de datas fechada nas duas pontas (datas de
// calendário, sem componente de hora).
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// DeriveWindows resolve as janelas corrente/anterior a partir do modo de
// comparação e do instante de referência.
//
// rolling28: os últimos 28 dias fechados (até ontem) contra os 28 dias
// imediatamente anteriores. fullMonth: o mês corrente até a data de referência
// contra o mesmo intervalo de dias do mês anterior, com a ponta final presa ao
// último dia do mês anterior quando ele é mais curto.
func DeriveWindows(mode domain.ComparisonMode, asOf time.Time) (current, previous PeriodWindow) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	if mode == domain.ComparisonModeFullMonth {
		firstOfMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		current = PeriodWindow{Start: firstOfMonth, End: day}

		span := day.Day() - 1
		prevFirst := firstOfMonth.AddDate(0, -1, 0)
		prevLast := firstOfMonth.AddDate(0, 0, -1)

		prevEnd := prevFirst.AddDate(0, 0, span)
		if prevEnd.After(prevLast) {
			prevEnd = prevLast
		}

		previous = PeriodWindow{Start: prevFirst, End: prevEnd}
		return current, previous
	}

	end := day.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -27)
	current = PeriodWindow{Start: start, End: end}
	previous = PeriodWindow{Start: start.AddDate(0, 0, -28), End: start.AddDate(0, 0, -1)}

	return current, previous
}
