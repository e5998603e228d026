package meta

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/campaign-health-api/internal/config"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newIntegrator(ctrl *gomock.Controller) (*MetaIntegrator, *mocks.MockClient) {
	client := mocks.NewMockClient(ctrl)
	return New(&config.Config{}, client), client
}

func TestGetCampaignSnapshotsJoinsInsightsWithCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)

	periodStart := time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	client.EXPECT().GetCampaigns("123").Return([]metadomain.Campaign{
		{ID: "cmp-1", Name: "Campanha Junho", Status: "PAUSED", DailyBudget: "15075"},
	}, nil)
	client.EXPECT().GetCampaignInsights("123", periodStart, periodEnd).Return([]metadomain.CampaignInsight{
		{
			CampaignID:   "cmp-1",
			CampaignName: "Campanha Junho",
			InsightMetrics: metadomain.InsightMetrics{
				Impressions: "10000",
				Clicks:      "60",
				Spend:       "105.50",
				Frequency:   "2.1",
				Objective:   "OUTCOME_SALES",
				Actions: []metadomain.Action{
					{ActionType: "offsite_conversion.fb_pixel_purchase", Value: "4"},
				},
				VideoAvgTimeWatched: []metadomain.Action{
					{ActionType: "video_view", Value: "4.2"},
				},
			},
		},
		// Campanha removida da listagem mas ainda presente nos insights
		{
			CampaignID:     "cmp-2",
			CampaignName:   "Campanha Antiga",
			InsightMetrics: metadomain.InsightMetrics{Impressions: "500", Clicks: "3", Spend: "9.90"},
		},
	}, nil)

	entries, err := integrator.GetCampaignSnapshots("123", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "cmp-1", first.CampaignID)
	assert.Equal(t, "Campanha Junho", first.CampaignName)
	assert.Equal(t, domain.CampaignStatusPaused, first.Status)
	require.NotNil(t, first.DailyBudget)
	assert.InDelta(t, 150.75, *first.DailyBudget, 0.001)

	require.NotNil(t, first.Metrics)
	assert.Equal(t, 10000, first.Metrics.Impressions)
	assert.Equal(t, 60, first.Metrics.Clicks)
	assert.InDelta(t, 105.50, first.Metrics.Spend, 0.001)
	require.NotNil(t, first.Metrics.Frequency)
	assert.InDelta(t, 2.1, *first.Metrics.Frequency, 0.001)
	require.NotNil(t, first.Metrics.Conversions)
	assert.Equal(t, 4, *first.Metrics.Conversions)
	require.NotNil(t, first.Metrics.DwellTimeSeconds)
	assert.InDelta(t, 4.2, *first.Metrics.DwellTimeSeconds, 0.001)
	assert.Nil(t, first.Metrics.AudiencePenetrationPct)
	assert.Nil(t, first.Metrics.SeniorityFitPct)

	// Sem entidade correspondente: status assume ativo e orçamento fica vazio
	second := entries[1]
	assert.Equal(t, "cmp-2", second.CampaignID)
	assert.Equal(t, domain.CampaignStatusActive, second.Status)
	assert.Nil(t, second.DailyBudget)
	assert.Nil(t, second.Metrics.Conversions)
	assert.Nil(t, second.Metrics.Frequency)
}

func TestGetCampaignSnapshotsPropagatesClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)

	client.EXPECT().GetCampaigns("123").Return(nil, errors.New("sem conexão"))

	entries, err := integrator.GetCampaignSnapshots("123", time.Now().AddDate(0, 0, -28), time.Now())
	assert.Error(t, err)
	assert.Nil(t, entries)
}

func TestGetAdSnapshotsJoinsInsightsWithAds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	integrator, client := newIntegrator(ctrl)

	periodStart := time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	client.EXPECT().GetAds("123").Return([]metadomain.Ad{
		{ID: "ad-1", Name: "Criativo Azul", Status: "ACTIVE", CreatedTime: "2025-05-10T08:30:00-0300"},
		{ID: "ad-2", Name: "Criativo Verde", Status: "PAUSED", CreatedTime: "data inválida"},
	}, nil)
	client.EXPECT().GetAdInsights("123", periodStart, periodEnd).Return([]metadomain.AdInsight{
		{
			CampaignID:     "cmp-1",
			AdID:           "ad-1",
			AdName:         "Criativo Azul",
			InsightMetrics: metadomain.InsightMetrics{Impressions: "5000", Clicks: "50", Spend: "60"},
		},
		{
			CampaignID:     "cmp-1",
			AdID:           "ad-2",
			AdName:         "Criativo Verde",
			InsightMetrics: metadomain.InsightMetrics{Impressions: "2000", Clicks: "10", Spend: "20"},
		},
	}, nil)

	entries, err := integrator.GetAdSnapshots("123", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "ad-1", first.AdID)
	assert.Equal(t, domain.AdStatusActive, first.Status)
	expectedStart := time.Date(2025, 5, 10, 8, 30, 0, 0, time.FixedZone("", -3*60*60))
	assert.True(t, first.StartedAt.Equal(expectedStart))

	// Data de criação ilegível: o snapshot segue sem StartedAt
	second := entries[1]
	assert.Equal(t, "ad-2", second.AdID)
	assert.Equal(t, domain.AdStatusPaused, second.Status)
	assert.True(t, second.StartedAt.IsZero())
}

func TestFactorySnapshotMetricsLeavesUnreportedFieldsNil(t *testing.T) {
	metrics := factorySnapshotMetrics(&metadomain.InsightMetrics{
		Impressions: "1200",
		Clicks:      "30",
		Spend:       "45.90",
		Objective:   "OBJETIVO_DESCONHECIDO",
	})

	assert.Equal(t, 1200, metrics.Impressions)
	assert.Equal(t, 30, metrics.Clicks)
	assert.InDelta(t, 45.90, metrics.Spend, 0.001)
	assert.Nil(t, metrics.Frequency)
	assert.Nil(t, metrics.Conversions)
	assert.Nil(t, metrics.DwellTimeSeconds)
}

func TestParseDailyBudgetConvertsCents(t *testing.T) {
	budget := parseDailyBudget("12999")
	require.NotNil(t, budget)
	assert.InDelta(t, 129.99, *budget, 0.001)

	assert.Nil(t, parseDailyBudget(""))
	assert.Nil(t, parseDailyBudget("abc"))
}
