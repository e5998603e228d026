package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func scoredRecord(breakdown []*domain.ScoreContribution) *domain.CampaignScoreRecord {
	return &domain.CampaignScoreRecord{
		CampaignID: "CAMP001",
		Status:     domain.ScoringStatusNeedsAttention,
		Breakdown:  breakdown,
	}
}

func contribution(metric string, earned, possible float64) *domain.ScoreContribution {
	return &domain.ScoreContribution{
		Metric:   metric,
		Earned:   earned,
		Possible: possible,
		Applied:  true,
	}
}

func TestAnalyzeCausationRanking(t *testing.T) {
	cfg := DefaultConfig()

	record := scoredRecord([]*domain.ScoreContribution{
		contribution(MetricDwell, 12, 12),
		contribution(MetricCtr, 0, 10),   // zerada
		contribution(MetricCpc, 0, 12),   // zerada, mais pontos possíveis
		contribution(MetricCpm, 2, 6),    // parcial: abaixo da metade
		contribution(MetricSeniority, 10, 10),
	})

	insights := AnalyzeCausation(record, nil, cfg)
	require.Len(t, insights, 3)

	// Primário é a zerada de maior peso; as demais zeradas vêm antes das
	// parciais.
	assert.Equal(t, domain.CausationSeverityPrimary, insights[0].Severity)
	assert.Equal(t, MetricCpc, insights[0].Metric)
	assert.Equal(t, domain.CausationLayerBidding, insights[0].Layer)

	assert.Equal(t, domain.CausationSeveritySecondary, insights[1].Severity)
	assert.Equal(t, MetricCtr, insights[1].Metric)
	assert.Equal(t, domain.CausationLayerCreative, insights[1].Layer)

	assert.Equal(t, domain.CausationSeveritySecondary, insights[2].Severity)
	assert.Equal(t, MetricCpm, insights[2].Metric)

	for _, insight := range insights {
		assert.NotEmpty(t, insight.Message)
		assert.NotEmpty(t, insight.Recommendation)
	}
}

func TestAnalyzeCausationTieBreakByMetricName(t *testing.T) {
	cfg := DefaultConfig()

	// Mesmo peso: desempate alfabético pelo identificador da métrica, para a
	// saída ser estável entre execuções.
	record := scoredRecord([]*domain.ScoreContribution{
		contribution(MetricPenetration, 0, 10),
		contribution(MetricCtr, 0, 10),
		contribution(MetricFrequency, 0, 10),
		contribution(MetricSeniority, 0, 10),
	})

	insights := AnalyzeCausation(record, nil, cfg)
	require.Len(t, insights, 3)

	assert.Equal(t, MetricPenetration, insights[0].Metric)
	assert.Equal(t, MetricCtr, insights[1].Metric)
	assert.Equal(t, MetricFrequency, insights[2].Metric)
}

func TestAnalyzeCausationLayers(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		metric string
		layer  domain.CausationLayer
	}{
		{metric: MetricCtr, layer: domain.CausationLayerCreative},
		{metric: MetricDwellTrend, layer: domain.CausationLayerCreative},
		{metric: MetricFrequency, layer: domain.CausationLayerCreative},
		{metric: MetricCpc, layer: domain.CausationLayerBidding},
		{metric: MetricCpa, layer: domain.CausationLayerBidding},
		{metric: MetricPenetration, layer: domain.CausationLayerTargeting},
		{metric: MetricSeniority, layer: domain.CausationLayerTargeting},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			record := scoredRecord([]*domain.ScoreContribution{
				contribution(tt.metric, 0, 10),
			})

			insights := AnalyzeCausation(record, nil, cfg)
			require.Len(t, insights, 1)
			assert.Equal(t, tt.layer, insights[0].Layer)
		})
	}
}

func TestAnalyzeCausationHealthyCampaign(t *testing.T) {
	cfg := DefaultConfig()

	// Parciais sem nenhuma zerada não geram insight: campanha saudável produz
	// lista vazia.
	record := scoredRecord([]*domain.ScoreContribution{
		contribution(MetricDwell, 12, 12),
		contribution(MetricCtr, 4, 10),
		contribution(MetricCpc, 12, 12),
	})

	assert.Empty(t, AnalyzeCausation(record, nil, cfg))
}

func TestAnalyzeCausationSkipsUnscoredRecords(t *testing.T) {
	cfg := DefaultConfig()

	record := &domain.CampaignScoreRecord{
		CampaignID: "CAMP001",
		Status:     domain.ScoringStatusLowVolume,
	}

	assert.Nil(t, AnalyzeCausation(record, nil, cfg))
	assert.Nil(t, AnalyzeCausation(nil, nil, cfg))
}

func TestAnalyzeCausationFatigueRefinesCreativeRecommendation(t *testing.T) {
	cfg := DefaultConfig()

	record := scoredRecord([]*domain.ScoreContribution{
		contribution(MetricCtr, 0, 10),
	})

	ads := []*domain.AdDiagnostic{
		{AdID: "AD001", FatigueFlag: domain.FatigueFlagFatigued},
		{AdID: "AD002", FatigueFlag: domain.FatigueFlagNotFatigued},
	}

	insights := AnalyzeCausation(record, ads, cfg)
	require.Len(t, insights, 1)

	assert.Contains(t, insights[0].Recommendation, "fatigados")

	// Sem fadiga, a recomendação fixa da métrica permanece.
	plain := AnalyzeCausation(record, nil, cfg)
	require.Len(t, plain, 1)
	assert.NotContains(t, plain[0].Recommendation, "fatigados")
}
