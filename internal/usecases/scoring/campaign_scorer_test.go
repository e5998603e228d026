package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

var evaluationTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func healthyCampaignInput() CampaignInput {
	return CampaignInput{
		CampaignID:   "CAMP001",
		CampaignName: "Campanha de Engajamento",
		Status:       domain.CampaignStatusActive,
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:            10000,
			Clicks:                 60, // CTR 0.6%
			Spend:                  105,
			Conversions:            intPtr(2), // abaixo do mínimo: CPA fora do denominador
			DwellTimeSeconds:       floatPtr(4.2),
			Frequency:              floatPtr(2.1),
			AudiencePenetrationPct: floatPtr(65),
			SeniorityFitPct:        floatPtr(75),
		}),
		Previous: BuildSnapshot(&domain.RawMetrics{
			Impressions:            10000,
			Clicks:                 40, // CTR 0.4% -> tendência +50%
			Spend:                  100,
			DwellTimeSeconds:       floatPtr(4.0),
			Frequency:              floatPtr(2.0),
			AudiencePenetrationPct: floatPtr(60),
		}),
	}
}

func healthyBaseline() AccountBaseline {
	return AccountBaseline{
		AvgCpc: floatPtr(1.75),
		AvgCpm: floatPtr(10.5),
		AvgCpa: floatPtr(50),
	}
}

func TestScoreCampaignStatusGates(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		input    CampaignInput
		expected domain.ScoringStatus
	}{
		{
			name: "Campanha pausada - status paused sem pontuação",
			input: CampaignInput{
				CampaignID: "CAMP001",
				Status:     domain.CampaignStatusPaused,
				Current:    BuildSnapshot(&domain.RawMetrics{Impressions: 50000, Clicks: 500, Spend: 100}),
			},
			expected: domain.ScoringStatusPaused,
		},
		{
			name: "Volume abaixo do piso - low_volume",
			input: CampaignInput{
				CampaignID: "CAMP001",
				Status:     domain.CampaignStatusActive,
				Current:    BuildSnapshot(&domain.RawMetrics{Impressions: 999, Clicks: 5, Spend: 10}),
			},
			expected: domain.ScoringStatusLowVolume,
		},
		{
			name: "Sem período anterior - new_campaign",
			input: CampaignInput{
				CampaignID: "CAMP001",
				Status:     domain.CampaignStatusActive,
				Current:    BuildSnapshot(&domain.RawMetrics{Impressions: 5000, Clicks: 50, Spend: 100}),
			},
			expected: domain.ScoringStatusNewCampaign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := ScoreCampaign(tt.input, healthyBaseline(), cfg, evaluationTime)
			require.NotNil(t, record)
			assert.Equal(t, tt.expected, record.Status)
			assert.False(t, record.Scored())
			assert.Empty(t, record.Breakdown)
			assert.NotEmpty(t, record.StatusReason)
		})
	}
}

func TestScoreCampaignBoundaryVolume(t *testing.T) {
	cfg := DefaultConfig()
	input := healthyCampaignInput()

	// Exatamente no piso: elegível para pontuação.
	input.Current.Impressions = 1000
	record := ScoreCampaign(input, healthyBaseline(), cfg, evaluationTime)
	assert.True(t, record.Scored())
}

func TestScoreCampaignHealthyScenario(t *testing.T) {
	cfg := DefaultConfig()

	record := ScoreCampaign(healthyCampaignInput(), healthyBaseline(), cfg, evaluationTime)
	require.NotNil(t, record)

	// CTR 0.6% com tendência +50%, dwell 4.2s e frequência 2.1: engajamento
	// perto do teto de 45.
	assert.GreaterOrEqual(t, record.EngagementScore, 43.0)
	assert.Equal(t, 45.0, record.EngagementMax)

	// CPA excluído do denominador por falta de conversões: máximo de custo cai
	// de 35 para 30.
	assert.Equal(t, 30.0, record.CostMax)

	for _, c := range record.Breakdown {
		if c.Metric == MetricCpa {
			assert.False(t, c.Applied)
		}
	}

	assert.Equal(t, domain.ScoringStatusPerformingWell, record.Status)
	assert.GreaterOrEqual(t, record.TotalScore, 70.0)
	assert.LessOrEqual(t, record.TotalScore, 100.0)
	assert.NotEmpty(t, record.PositiveSignals)
}

func TestScoreCampaignBounds(t *testing.T) {
	cfg := DefaultConfig()

	// Campanha com tudo ruim: pontuação no chão, nunca negativa.
	input := CampaignInput{
		CampaignID: "CAMP002",
		Status:     domain.CampaignStatusActive,
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:            20000,
			Clicks:                 10, // CTR 0.05%
			Spend:                  500,
			DwellTimeSeconds:       floatPtr(0.8),
			Frequency:              floatPtr(8),
			AudiencePenetrationPct: floatPtr(4),
			SeniorityFitPct:        floatPtr(10),
		}),
		Previous: BuildSnapshot(&domain.RawMetrics{
			Impressions:      20000,
			Clicks:           80,
			Spend:            200,
			DwellTimeSeconds: floatPtr(3.0),
		}),
	}

	record := ScoreCampaign(input, AccountBaseline{AvgCpc: floatPtr(1), AvgCpm: floatPtr(5)}, cfg, evaluationTime)
	require.NotNil(t, record)

	assert.GreaterOrEqual(t, record.TotalScore, 0.0)
	assert.LessOrEqual(t, record.TotalScore, 100.0)
	assert.Equal(t, domain.ScoringStatusNeedsAttention, record.Status)
	assert.NotEmpty(t, record.Issues)

	// Issues ordenados por severidade: o primeiro perdeu pelo menos tantos
	// pontos quanto qualquer outro.
	for _, c := range record.Breakdown {
		assert.GreaterOrEqual(t, c.Earned, 0.0)
		assert.LessOrEqual(t, c.Earned, c.Possible)
	}
}

func TestCampaignScoreRecordJSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	// Registro completo: breakdown aplicado, sinais positivos e issues.
	record := ScoreCampaign(healthyCampaignInput(), healthyBaseline(), cfg, evaluationTime)
	record.EvaluationID = "EVAL0001"
	require.True(t, record.Scored())
	require.NotEmpty(t, record.Breakdown)

	payload, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded domain.CampaignScoreRecord
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// Persistir e reler não pode perder campo nem alterar valor.
	assert.Equal(t, record, &decoded)
}

func TestScoreCampaignDeterminism(t *testing.T) {
	cfg := DefaultConfig()

	first := ScoreCampaign(healthyCampaignInput(), healthyBaseline(), cfg, evaluationTime)
	second := ScoreCampaign(healthyCampaignInput(), healthyBaseline(), cfg, evaluationTime)

	assert.Equal(t, first, second)
}

func TestScoreCampaignMonotonicity(t *testing.T) {
	cfg := DefaultConfig()
	baseline := healthyBaseline()

	// Melhorar o dwell nunca derruba a própria sub-nota nem o total.
	dwells := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	lastTotal := -1.0
	lastDwell := -1.0

	for _, dwell := range dwells {
		input := healthyCampaignInput()
		input.Current.DwellTimeSeconds = floatPtr(dwell)

		record := ScoreCampaign(input, baseline, cfg, evaluationTime)
		require.True(t, record.Scored())

		var dwellEarned float64
		for _, c := range record.Breakdown {
			if c.Metric == MetricDwell {
				dwellEarned = c.Earned
			}
		}

		assert.GreaterOrEqual(t, dwellEarned, lastDwell)
		assert.GreaterOrEqual(t, record.TotalScore, lastTotal)

		lastDwell = dwellEarned
		lastTotal = record.TotalScore
	}
}

func TestScoreCampaignTrendUnavailableShrinksDenominator(t *testing.T) {
	cfg := DefaultConfig()

	input := healthyCampaignInput()
	// Período anterior com volume abaixo do piso: tendências indisponíveis.
	input.Previous = BuildSnapshot(&domain.RawMetrics{Impressions: 100, Clicks: 2, Spend: 5})

	record := ScoreCampaign(input, healthyBaseline(), cfg, evaluationTime)
	require.True(t, record.Scored())

	// Sub-notas de tendência saem do possível em vez de zerar o ganho.
	assert.Equal(t, 45.0-pointsDwellTrend-pointsCtrTrend, record.EngagementMax)

	for _, c := range record.Breakdown {
		switch c.Metric {
		case MetricCtrTrend, MetricDwellTrend, MetricCpcTrend, MetricCpmTrend:
			assert.False(t, c.Applied, "tendência %s deveria estar excluída", c.Metric)
		}
	}
}
