package scoring

import (
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// ComparePeriods calcula os deltas percentuais entre o período corrente e o
// anterior da mesma entidade. Deltas nil significam "indisponível": período
// anterior ausente, volume anterior abaixo do piso ou base zero com valor
// corrente positivo (que viraria um pico enganoso, não +100%).
func ComparePeriods(current, previous *domain.MetricSnapshot, floors VolumeFloors) *domain.PeriodComparison {
	comparison := &domain.PeriodComparison{}

	if current == nil || previous == nil {
		return comparison
	}

	comparison.HasPreviousPeriod = true

	// Deltas de contadores brutos não dependem de piso: base zero continua
	// sendo tratada pela regra de percentChange.
	comparison.ImpressionsChange = percentChange(float64(current.Impressions), float64(previous.Impressions))
	comparison.ClicksChange = percentChange(float64(current.Clicks), float64(previous.Clicks))
	comparison.SpendChange = percentChange(current.Spend, previous.Spend)

	if current.Conversions != nil && previous.Conversions != nil {
		comparison.ConversionsChange = percentChange(float64(*current.Conversions), float64(*previous.Conversions))
	}

	// Métricas derivadas de impressões exigem volume anterior mínimo para o
	// delta não ser ruído de base pequena.
	if previous.Impressions >= floors.TrendImpressions {
		comparison.CtrChange = percentChangePtr(current.Ctr, previous.Ctr)
		comparison.CpmChange = percentChangePtr(current.Cpm, previous.Cpm)
		comparison.FrequencyChange = percentChangePtr(current.Frequency, previous.Frequency)
		comparison.PenetrationChange = percentChangePtr(current.AudiencePenetrationPct, previous.AudiencePenetrationPct)
		comparison.DwellChange = percentChangePtr(current.DwellTimeSeconds, previous.DwellTimeSeconds)
	}

	if previous.Clicks >= floors.TrendClicks {
		comparison.CpcChange = percentChangePtr(current.Cpc, previous.Cpc)
	}

	if previous.Conversions != nil && *previous.Conversions > 0 {
		comparison.CpaChange = percentChangePtr(current.Cpa, previous.Cpa)
	}

	return comparison
}

// percentChange retorna (atual-anterior)/anterior*100. Base zero com valor
// corrente positivo é indisponível (nil); zero para zero é "sem mudança" (0).
func percentChange(current, previous float64) *float64 {
	if previous == 0 {
		if current == 0 {
			return float64Ptr(0)
		}
		return nil
	}

	return float64Ptr((current - previous) / previous * 100)
}

func percentChangePtr(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}

	return percentChange(*current, *previous)
}
