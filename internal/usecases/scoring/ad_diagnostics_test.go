package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func campaignAverages() *domain.CampaignAverages {
	return &domain.CampaignAverages{
		CampaignCtr:              floatPtr(1.0),
		CampaignDwell:            floatPtr(4.0),
		CampaignCpc:              floatPtr(1.5),
		CampaignImpressionsTotal: 10000,
	}
}

func TestDiagnoseAdSeniorAudiencePattern(t *testing.T) {
	cfg := DefaultConfig()
	asOf := evaluationTime

	// CTR fraco com dwell forte: clicaram pouco, mas quem clicou ficou. Padrão
	// de audiência sênior ou mensagem de profundidade, não anúncio ruim.
	input := AdInput{
		AdID:      "AD001",
		AdName:    "Criativo Institucional",
		Status:    domain.AdStatusActive,
		StartedAt: asOf.AddDate(0, 0, -70),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      1200,
			Clicks:           7, // CTR 0.58% -> -41.67% vs média
			Spend:            10.5,
			DwellTimeSeconds: floatPtr(4.6), // +15% vs média
		}),
		Previous: BuildSnapshot(&domain.RawMetrics{
			Impressions:      1000,
			Clicks:           10, // CTR 1.0% -> queda de -41.67%
			Spend:            12,
			DwellTimeSeconds: floatPtr(4.5),
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, asOf)
	require.NotNil(t, diagnostic)

	assert.Equal(t, 70, diagnostic.AgeDays)
	assert.Equal(t, domain.AdAgeStateFatigueRisk, diagnostic.AgeState)
	assert.False(t, diagnostic.LowVolume)

	require.NotNil(t, diagnostic.CtrStatus)
	assert.Equal(t, domain.MetricStatusWeak, *diagnostic.CtrStatus)
	require.NotNil(t, diagnostic.CtrDelta)
	assert.InDelta(t, -41.67, *diagnostic.CtrDelta, 0.01)

	require.NotNil(t, diagnostic.DwellStatus)
	assert.Equal(t, domain.MetricStatusStrong, *diagnostic.DwellStatus)

	require.NotNil(t, diagnostic.ConflictReason)
	assert.Equal(t, domain.ConflictSeniorAudienceOrMessageDepth, *diagnostic.ConflictReason)

	// CTR caindo 41% contra o próprio período anterior em idade de risco.
	assert.Equal(t, domain.FatigueFlagFatigued, diagnostic.FatigueFlag)

	// Uma métrica boa e uma ruim: contribuição neutra, sem conflito de
	// distribuição a recomendação cai na tabela por tier.
	assert.Equal(t, domain.ContributionNeutral, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendKeepRunning, diagnostic.Recommendation)
}

func TestDiagnoseAdCuriosityClicks(t *testing.T) {
	cfg := DefaultConfig()

	// CTR forte com dwell fraco: cliques de curiosidade que não seguram
	// atenção.
	input := AdInput{
		AdID:      "AD002",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      2000,
			Clicks:           25, // CTR 1.25% -> +25%
			Spend:            20,
			DwellTimeSeconds: floatPtr(3.0), // -25% vs média
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)

	require.NotNil(t, diagnostic.ConflictReason)
	assert.Equal(t, domain.ConflictCuriosityClicks, *diagnostic.ConflictReason)
	assert.Equal(t, domain.AdAgeStateStable, diagnostic.AgeState)
	assert.Equal(t, domain.FatigueFlagNotFatigued, diagnostic.FatigueFlag)
}

func TestDiagnoseAdLowVolume(t *testing.T) {
	cfg := DefaultConfig()

	input := AdInput{
		AdID:      "AD003",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -20),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions: 300,
			Clicks:      2,
			Spend:       3,
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)

	assert.True(t, diagnostic.LowVolume)
	assert.NotEmpty(t, diagnostic.LowVolumeReason)
	assert.Nil(t, diagnostic.ConflictReason)
	assert.Equal(t, domain.ContributionNotEvaluable, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendInsufficientData, diagnostic.Recommendation)
}

func TestDiagnoseAdVolumeBoundary(t *testing.T) {
	cfg := DefaultConfig()

	build := func(impressions int) *domain.AdDiagnostic {
		input := AdInput{
			AdID:      "AD004",
			Status:    domain.AdStatusActive,
			StartedAt: evaluationTime.AddDate(0, 0, -20),
			Current: BuildSnapshot(&domain.RawMetrics{
				Impressions: impressions,
				Clicks:      impressions / 100,
				Spend:       15,
			}),
		}
		return DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)
	}

	assert.True(t, build(999).LowVolume)
	assert.False(t, build(1000).LowVolume)
}

func TestDiagnoseAdOverServingWeakAd(t *testing.T) {
	cfg := DefaultConfig()

	// 85% das impressões da campanha em um anúncio de CTR fraco: o algoritmo
	// está empurrando volume para um perdedor.
	input := AdInput{
		AdID:      "AD005",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      8500,
			Clicks:           30, // CTR 0.35% -> fraco
			Spend:            90,
			DwellTimeSeconds: floatPtr(3.9),
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 3}, cfg, evaluationTime)

	require.NotNil(t, diagnostic.ImpressionShare)
	assert.InDelta(t, 85.0, *diagnostic.ImpressionShare, 0.01)
	assert.Equal(t, domain.DistributionOverServed, diagnostic.DistributionFlag)

	require.NotNil(t, diagnostic.ConflictReason)
	assert.Equal(t, domain.ConflictAlgorithmOverServingWeakAd, *diagnostic.ConflictReason)
	assert.Equal(t, domain.RecommendReduceImpressionShareOrPause, diagnostic.Recommendation)
}

func TestDiagnoseAdTopAdOverServed(t *testing.T) {
	cfg := DefaultConfig()

	// Anúncio saudável concentrando as impressões com 2+ irmãos: risco de
	// concentração, pede variações em vez de pausa.
	input := AdInput{
		AdID:      "AD006",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      7500,
			Clicks:           95, // CTR 1.27% -> forte
			Spend:            85,
			DwellTimeSeconds: floatPtr(4.5),
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 3}, cfg, evaluationTime)

	require.NotNil(t, diagnostic.ConflictReason)
	assert.Equal(t, domain.ConflictTopAdOverServed, *diagnostic.ConflictReason)
	assert.Equal(t, domain.RecommendCreateVariants, diagnostic.Recommendation)

	// Com menos de 3 anúncios no grupo não há o que redistribuir.
	pair := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 2}, cfg, evaluationTime)
	assert.Nil(t, pair.ConflictReason)
}

func TestDiagnoseAdHighContributor(t *testing.T) {
	cfg := DefaultConfig()

	input := AdInput{
		AdID:      "AD007",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      3000,
			Clicks:           40, // CTR 1.33% -> forte
			Spend:            40, // CPC 1.00 -> eficiente vs média 1.50
			DwellTimeSeconds: floatPtr(4.5),
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)

	require.NotNil(t, diagnostic.CpcStatus)
	assert.Equal(t, domain.MetricStatusEfficient, *diagnostic.CpcStatus)
	assert.Equal(t, domain.ContributionHigh, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendScaleOrDuplicate, diagnostic.Recommendation)
}

func TestDiagnoseAdWeakAndFatigued(t *testing.T) {
	cfg := DefaultConfig()

	// Duas métricas fracas somadas ao CTR em queda na idade de risco: o
	// criativo esgotou, trocar antes de pausar.
	input := AdInput{
		AdID:      "AD008",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -80),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions:      4000,
			Clicks:           20, // CTR 0.5% -> fraco
			Spend:            80, // CPC 4.00 -> ineficiente
			DwellTimeSeconds: floatPtr(4.0),
		}),
		Previous: BuildSnapshot(&domain.RawMetrics{
			Impressions: 4000,
			Clicks:      40, // CTR 1.0% -> queda de 50%
			Spend:       60,
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 20000, AdCount: 4}, cfg, evaluationTime)

	assert.Equal(t, domain.FatigueFlagFatigued, diagnostic.FatigueFlag)
	assert.Equal(t, domain.ContributionWeak, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendRefreshOrReplaceCreative, diagnostic.Recommendation)
}

func TestDiagnoseAdLearning(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		ageDays  int
		expected domain.AdAgeState
	}{
		{name: "Dia 13 ainda em aprendizado", ageDays: 13, expected: domain.AdAgeStateLearning},
		{name: "Dia 14 já estável", ageDays: 14, expected: domain.AdAgeStateStable},
		{name: "Dia 59 ainda estável", ageDays: 59, expected: domain.AdAgeStateStable},
		{name: "Dia 60 em risco de fadiga", ageDays: 60, expected: domain.AdAgeStateFatigueRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := AdInput{
				AdID:      "AD009",
				Status:    domain.AdStatusActive,
				StartedAt: evaluationTime.AddDate(0, 0, -tt.ageDays),
				Current: BuildSnapshot(&domain.RawMetrics{
					Impressions: 2000,
					Clicks:      20,
					Spend:       25,
				}),
			}

			diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)
			assert.Equal(t, tt.expected, diagnostic.AgeState)
		})
	}

	// Em aprendizado, o veredito é esperar, não otimizar.
	young := AdInput{
		AdID:      "AD010",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -5),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions: 2000,
			Clicks:      20,
			Spend:       25,
		}),
	}

	diagnostic := DiagnoseAd(young, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)
	assert.Equal(t, domain.ContributionLearning, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendAllowMoreTime, diagnostic.Recommendation)
}

func TestDiagnoseAdPaused(t *testing.T) {
	cfg := DefaultConfig()

	input := AdInput{
		AdID:      "AD011",
		Status:    domain.AdStatusPaused,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions: 5000,
			Clicks:      50,
			Spend:       60,
		}),
	}

	diagnostic := DiagnoseAd(input, campaignAverages(), CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)
	assert.Equal(t, domain.RecommendNoActionAdPaused, diagnostic.Recommendation)
}

func TestDiagnoseAdWithoutAverages(t *testing.T) {
	cfg := DefaultConfig()

	// Sem médias de campanha (nenhum irmão qualificado) não há referência de
	// comparação.
	input := AdInput{
		AdID:      "AD012",
		Status:    domain.AdStatusActive,
		StartedAt: evaluationTime.AddDate(0, 0, -30),
		Current: BuildSnapshot(&domain.RawMetrics{
			Impressions: 5000,
			Clicks:      50,
			Spend:       60,
		}),
	}

	diagnostic := DiagnoseAd(input, nil, CampaignContext{TotalImpressions: 10000, AdCount: 4}, cfg, evaluationTime)

	assert.Nil(t, diagnostic.CtrStatus)
	assert.Equal(t, domain.ContributionNotEvaluable, diagnostic.Contribution)
	assert.Equal(t, domain.RecommendInsufficientData, diagnostic.Recommendation)
}
