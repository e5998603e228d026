package domain

import (
	"fmt"

	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// RawMetrics representa os contadores brutos de uma entidade (campanha ou anúncio)
// em um período. Campos opcionais são ponteiros: nil significa "não informado pela
// plataforma", nunca zero.
type RawMetrics struct {
	Impressions            int      `json:"impressions"`
	Clicks                 int      `json:"clicks"`
	Spend                  float64  `json:"spend"`
	Conversions            *int     `json:"conversions"`
	Leads                  *int     `json:"leads"`
	VideoViews             *int     `json:"video_views"`
	DwellTimeSeconds       *float64 `json:"dwell_time_seconds"`
	Frequency              *float64 `json:"frequency"`
	AudiencePenetrationPct *float64 `json:"audience_penetration_pct"`
	SeniorityFitPct        *float64 `json:"seniority_fit_pct"`
}

// Validate verifica se os contadores são utilizáveis. Contadores negativos indicam
// uma entrada malformada: a entidade é excluída do lote e o restante continua.
func (m *RawMetrics) Validate() error {
	if m == nil {
		return fmt.Errorf("métricas ausentes")
	}

	if m.Impressions < 0 || m.Clicks < 0 || m.Spend < 0 {
		return fmt.Errorf("contadores negativos: impressions=%d clicks=%d spend=%.2f", m.Impressions, m.Clicks, m.Spend)
	}

	if m.Conversions != nil && *m.Conversions < 0 {
		return fmt.Errorf("conversões negativas: %d", *m.Conversions)
	}

	if m.DwellTimeSeconds != nil && *m.DwellTimeSeconds < 0 {
		return fmt.Errorf("dwell time negativo: %.2f", *m.DwellTimeSeconds)
	}

	if m.Frequency != nil && *m.Frequency < 0 {
		return fmt.Errorf("frequência negativa: %.2f", *m.Frequency)
	}

	return nil
}

// MetricSnapshot é o RawMetrics de uma entidade/período acrescido das razões
// derivadas. Qualquer razão com denominador zero ou ausente fica nil, nunca
// NaN ou infinito.
type MetricSnapshot struct {
	RawMetrics

	Ctr *float64 `json:"ctr"`
	Cpc *float64 `json:"cpc"`
	Cpm *float64 `json:"cpm"`
	Cpa *float64 `json:"cpa"`
}

// Rounded devolve uma cópia com as razões derivadas arredondadas para duas
// casas, a precisão da resposta. O snapshot original segue em precisão
// completa para os cálculos.
func (m *MetricSnapshot) Rounded() *MetricSnapshot {
	if m == nil {
		return nil
	}

	out := *m
	out.Ctr = roundedPtr(m.Ctr)
	out.Cpc = roundedPtr(m.Cpc)
	out.Cpm = roundedPtr(m.Cpm)
	out.Cpa = roundedPtr(m.Cpa)
	return &out
}

func roundedPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}

	rounded := utils.RoundWithTwoDecimalPlace(*v)
	return &rounded
}

// PeriodComparison guarda os deltas percentuais entre dois períodos da mesma
// entidade. nil significa "indisponível" (sem período anterior ou volume abaixo
// do piso mínimo), que é diferente de delta zero.
type PeriodComparison struct {
	HasPreviousPeriod bool `json:"has_previous_period"`

	ImpressionsChange *float64 `json:"impressions_change"`
	ClicksChange      *float64 `json:"clicks_change"`
	SpendChange       *float64 `json:"spend_change"`
	ConversionsChange *float64 `json:"conversions_change"`
	CtrChange         *float64 `json:"ctr_change"`
	CpcChange         *float64 `json:"cpc_change"`
	CpmChange         *float64 `json:"cpm_change"`
	CpaChange         *float64 `json:"cpa_change"`
	DwellChange       *float64 `json:"dwell_change"`
	FrequencyChange   *float64 `json:"frequency_change"`
	PenetrationChange *float64 `json:"penetration_change"`
}

// Rounded devolve uma cópia com os deltas arredondados para duas casas.
func (c *PeriodComparison) Rounded() *PeriodComparison {
	if c == nil {
		return nil
	}

	out := *c
	out.ImpressionsChange = roundedPtr(c.ImpressionsChange)
	out.ClicksChange = roundedPtr(c.ClicksChange)
	out.SpendChange = roundedPtr(c.SpendChange)
	out.ConversionsChange = roundedPtr(c.ConversionsChange)
	out.CtrChange = roundedPtr(c.CtrChange)
	out.CpcChange = roundedPtr(c.CpcChange)
	out.CpmChange = roundedPtr(c.CpmChange)
	out.CpaChange = roundedPtr(c.CpaChange)
	out.DwellChange = roundedPtr(c.DwellChange)
	out.FrequencyChange = roundedPtr(c.FrequencyChange)
	out.PenetrationChange = roundedPtr(c.PenetrationChange)
	return &out
}
