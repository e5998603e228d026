package scoring

import (
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// BuildSnapshot normaliza contadores brutos em um MetricSnapshot com as razões
// derivadas (CTR, CPC, CPM, CPA). As razões ficam em precisão completa: o
// arredondamento de duas casas acontece só na montagem da resposta, nunca
// antes dos deltas relativos. Nunca levanta erro para contadores zerados:
// qualquer razão com denominador zero fica nil.
func BuildSnapshot(raw *domain.RawMetrics) *domain.MetricSnapshot {
	if raw == nil {
		return nil
	}

	snapshot := &domain.MetricSnapshot{RawMetrics: *raw}

	if raw.Impressions > 0 {
		snapshot.Ctr = float64Ptr(float64(raw.Clicks) / float64(raw.Impressions) * 100)
		snapshot.Cpm = float64Ptr(raw.Spend / float64(raw.Impressions) * 1000)
	}

	if raw.Clicks > 0 {
		snapshot.Cpc = float64Ptr(raw.Spend / float64(raw.Clicks))
	}

	if raw.Conversions != nil && *raw.Conversions > 0 {
		snapshot.Cpa = float64Ptr(raw.Spend / float64(*raw.Conversions))
	}

	return snapshot
}

func float64Ptr(f float64) *float64 {
	return &f
}
