package diagnosing_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	repomocks "github.com/vfg2006/campaign-health-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing/mocks"
	"github.com/vfg2006/campaign-health-api/internal/usecases/scoring"
)

var referenceTime = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

// Janelas rolling28 derivadas de referenceTime.
var (
	currentStart  = time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC)
	currentEnd    = time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)
	previousStart = time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)
	previousEnd   = time.Date(2025, time.May, 17, 0, 0, 0, 0, time.UTC)
)

type serviceMocks struct {
	source            *mocks.MockSnapshotSource
	accountRepo       *repomocks.MockAccountRepository
	campaignSnapshots *repomocks.MockCampaignSnapshotRepository
	adSnapshots       *repomocks.MockAdSnapshotRepository
	scoreRecords      *repomocks.MockScoreRecordRepository
	syncStates        *repomocks.MockSyncStateRepository
	alerts            *repomocks.MockAlertRepository
}

func newService(ctrl *gomock.Controller) (diagnosing.HealthReporter, *serviceMocks) {
	m := &serviceMocks{
		source:            mocks.NewMockSnapshotSource(ctrl),
		accountRepo:       repomocks.NewMockAccountRepository(ctrl),
		campaignSnapshots: repomocks.NewMockCampaignSnapshotRepository(ctrl),
		adSnapshots:       repomocks.NewMockAdSnapshotRepository(ctrl),
		scoreRecords:      repomocks.NewMockScoreRecordRepository(ctrl),
		syncStates:        repomocks.NewMockSyncStateRepository(ctrl),
		alerts:            repomocks.NewMockAlertRepository(ctrl),
	}

	service := diagnosing.NewService(
		scoring.DefaultConfig(),
		m.source,
		m.accountRepo,
		m.campaignSnapshots,
		m.adSnapshots,
		m.scoreRecords,
		m.syncStates,
		m.alerts,
	)

	return service, m
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testAccount() *domain.AdAccount {
	return &domain.AdAccount{
		ID:         "acc-1",
		ExternalID: "act_123",
		Name:       "Loja Center",
		Currency:   "BRL",
		Status:     domain.AdAccountStatusActive,
	}
}

func campaignEntry(campaignID string) *domain.CampaignSnapshotEntry {
	return &domain.CampaignSnapshotEntry{
		AccountID:    "acc-1",
		CampaignID:   campaignID,
		CampaignName: "Campanha " + campaignID,
		Status:       domain.CampaignStatusActive,
		PeriodStart:  currentStart,
		PeriodEnd:    currentEnd,
		Metrics: &domain.RawMetrics{
			Impressions:            10000,
			Clicks:                 60,
			Spend:                  105,
			Conversions:            intPtr(2),
			DwellTimeSeconds:       floatPtr(4.2),
			Frequency:              floatPtr(2.1),
			AudiencePenetrationPct: floatPtr(65),
			SeniorityFitPct:        floatPtr(75),
		},
	}
}

func previousCampaignEntry(campaignID string) *domain.CampaignSnapshotEntry {
	entry := campaignEntry(campaignID)
	entry.PeriodStart = previousStart
	entry.PeriodEnd = previousEnd
	entry.Metrics = &domain.RawMetrics{
		Impressions:            10000,
		Clicks:                 40,
		Spend:                  100,
		DwellTimeSeconds:       floatPtr(4.0),
		Frequency:              floatPtr(2.0),
		AudiencePenetrationPct: floatPtr(60),
	}
	return entry
}

func adEntry(campaignID, adID string) *domain.AdSnapshotEntry {
	return &domain.AdSnapshotEntry{
		AccountID:   "acc-1",
		CampaignID:  campaignID,
		AdID:        adID,
		AdName:      "Anúncio " + adID,
		Status:      domain.AdStatusActive,
		StartedAt:   referenceTime.AddDate(0, 0, -30),
		PeriodStart: currentStart,
		PeriodEnd:   currentEnd,
		Metrics: &domain.RawMetrics{
			Impressions:      5000,
			Clicks:           50,
			Spend:            60,
			DwellTimeSeconds: floatPtr(4.0),
		},
	}
}

func TestGetHealthReportValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	_, err := service.GetHealthReport("", domain.ComparisonModeRolling28, referenceTime)
	assert.ErrorIs(t, err, diagnosing.ErrMissingAccountID)

	_, err = service.GetHealthReport("act_123", domain.ComparisonMode("weekly"), referenceTime)
	assert.ErrorIs(t, err, diagnosing.ErrInvalidMode)

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_999").Return(nil, nil)

	_, err = service.GetHealthReport("act_999", domain.ComparisonModeRolling28, referenceTime)
	assert.ErrorIs(t, err, diagnosing.ErrAccountNotFound)
	assert.Contains(t, err.Error(), "act_999")
}

func TestGetHealthReportPropagatesRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)
	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return(nil, fmt.Errorf("conexão recusada"))

	_, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conexão recusada")
}

func TestGetHealthReportFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	lastSync := referenceTime.AddDate(0, 0, -1)

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.CampaignSnapshotEntry{campaignEntry("cmp-1")}, nil)
	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.CampaignSnapshotEntry{previousCampaignEntry("cmp-1")}, nil)

	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.AdSnapshotEntry{adEntry("cmp-1", "ad-2"), adEntry("cmp-1", "ad-1")}, nil)
	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.AdSnapshotEntry{adEntry("cmp-1", "ad-1")}, nil)

	mocked.scoreRecords.EXPECT().
		Save("acc-1", gomock.Any()).
		DoAndReturn(func(_ string, record *domain.CampaignScoreRecord) error {
			assert.Equal(t, "cmp-1", record.CampaignID)
			assert.NotEmpty(t, record.EvaluationID)
			return nil
		})

	mocked.alerts.EXPECT().ListByAccountID("acc-1").Return([]*domain.Alert{
		{AccountID: "acc-1", Kind: "budget_pacing", Severity: domain.AlertSeverityWarning, Message: "orçamento acelerado"},
	}, nil)
	mocked.syncStates.EXPECT().GetByAccountID("acc-1").Return(&domain.SyncState{
		AccountID:  "acc-1",
		LastSyncAt: &lastSync,
		Frequency:  "daily",
	}, nil)

	report, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)

	assert.NoError(t, err)
	assert.Equal(t, "act_123", report.AccountID)
	assert.Equal(t, "Loja Center", report.AccountName)
	assert.Equal(t, domain.ComparisonModeRolling28, report.Mode)
	assert.Equal(t, referenceTime, report.GeneratedAt)

	assert.Len(t, report.Campaigns, 1)
	campaign := report.Campaigns[0]
	assert.Equal(t, "cmp-1", campaign.CampaignID)
	assert.NotNil(t, campaign.Score)
	assert.True(t, campaign.Score.Scored())
	assert.NotNil(t, campaign.Metrics)
	assert.NotNil(t, campaign.Changes)
	assert.True(t, campaign.Changes.HasPreviousPeriod)
	assert.NotNil(t, campaign.Averages)

	// Anúncios ordenados por ID, cada um com diagnóstico e issues herdados.
	assert.Len(t, campaign.Ads, 2)
	assert.Equal(t, "ad-1", campaign.Ads[0].AdID)
	assert.Equal(t, "ad-2", campaign.Ads[1].AdID)
	for _, ad := range campaign.Ads {
		assert.NotNil(t, ad.Diagnostic)
		assert.Equal(t, campaign.Score.Issues, ad.InheritedIssues)
	}
	assert.True(t, campaign.Ads[0].Changes.HasPreviousPeriod)
	assert.False(t, campaign.Ads[1].Changes.HasPreviousPeriod)

	assert.Empty(t, report.Skipped)
	assert.Len(t, report.Alerts, 1)
	assert.Equal(t, &lastSync, report.LastSyncAt)
	assert.Equal(t, "daily", report.SyncFrequency)
}

func TestGetHealthReportFetchesFromSourceOnCacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	fetched := campaignEntry("cmp-1")
	fetched.AccountID = ""

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return(nil, nil)
	mocked.source.EXPECT().
		GetCampaignSnapshots("act_123", currentStart, currentEnd).
		Return([]*domain.CampaignSnapshotEntry{fetched}, nil)
	mocked.campaignSnapshots.EXPECT().
		SaveOrUpdate(fetched).
		DoAndReturn(func(entry *domain.CampaignSnapshotEntry) error {
			assert.Equal(t, "acc-1", entry.AccountID)
			assert.Equal(t, currentStart, entry.PeriodStart)
			assert.Equal(t, currentEnd, entry.PeriodEnd)
			return nil
		})

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return(nil, nil)
	mocked.source.EXPECT().
		GetCampaignSnapshots("act_123", previousStart, previousEnd).
		Return(nil, nil)

	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return(nil, nil)
	mocked.source.EXPECT().
		GetAdSnapshots("act_123", currentStart, currentEnd).
		Return(nil, nil)
	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return(nil, nil)
	mocked.source.EXPECT().
		GetAdSnapshots("act_123", previousStart, previousEnd).
		Return(nil, nil)

	mocked.scoreRecords.EXPECT().Save("acc-1", gomock.Any()).Return(nil)
	mocked.alerts.EXPECT().ListByAccountID("acc-1").Return(nil, nil)
	mocked.syncStates.EXPECT().GetByAccountID("acc-1").Return(nil, nil)

	report, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)

	assert.NoError(t, err)
	assert.Len(t, report.Campaigns, 1)
	assert.Equal(t, "cmp-1", report.Campaigns[0].CampaignID)

	// Sem período anterior o gate de campanha nova se aplica.
	assert.Equal(t, domain.ScoringStatusNewCampaign, report.Campaigns[0].Score.Status)
	assert.False(t, report.Campaigns[0].Score.Scored())

	assert.Nil(t, report.LastSyncAt)
	assert.Empty(t, report.Alerts)
}

func TestGetHealthReportSkipsMalformedEntities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	broken := campaignEntry("cmp-bad")
	broken.Metrics = &domain.RawMetrics{Impressions: 1000, Clicks: -5, Spend: 10}

	noMetrics := campaignEntry("cmp-empty")
	noMetrics.Metrics = nil

	badAd := adEntry("cmp-1", "ad-bad")
	badAd.Metrics = &domain.RawMetrics{Impressions: -1, Clicks: 0, Spend: 0}

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.CampaignSnapshotEntry{campaignEntry("cmp-1"), broken, noMetrics}, nil)
	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.CampaignSnapshotEntry{previousCampaignEntry("cmp-1")}, nil)

	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.AdSnapshotEntry{adEntry("cmp-1", "ad-1"), badAd}, nil)
	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.AdSnapshotEntry{}, nil)

	// Só a campanha válida é pontuada e persistida.
	mocked.scoreRecords.EXPECT().Save("acc-1", gomock.Any()).Return(nil).Times(1)
	mocked.alerts.EXPECT().ListByAccountID("acc-1").Return(nil, nil)
	mocked.syncStates.EXPECT().GetByAccountID("acc-1").Return(nil, nil)

	report, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)

	assert.NoError(t, err)
	assert.Len(t, report.Campaigns, 1)
	assert.Equal(t, "cmp-1", report.Campaigns[0].CampaignID)
	assert.Len(t, report.Campaigns[0].Ads, 1)
	assert.Equal(t, "ad-1", report.Campaigns[0].Ads[0].AdID)

	assert.Len(t, report.Skipped, 3)
	assert.Equal(t, "ad", report.Skipped[0].Kind)
	assert.Equal(t, "ad-bad", report.Skipped[0].ID)
	assert.Equal(t, "campaign", report.Skipped[1].Kind)
	assert.Equal(t, "cmp-bad", report.Skipped[1].ID)
	assert.Equal(t, "campaign", report.Skipped[2].Kind)
	assert.Equal(t, "cmp-empty", report.Skipped[2].ID)
}

func TestGetHealthReportRoundsRatiosOnlyInResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	// 7/1200 = 0.58333...%: a razão circula em precisão completa pelos deltas e
	// só a resposta sai com duas casas.
	entry := campaignEntry("cmp-1")
	entry.Metrics = &domain.RawMetrics{Impressions: 1200, Clicks: 7, Spend: 10.5, DwellTimeSeconds: floatPtr(4.0)}

	ad := adEntry("cmp-1", "ad-1")
	ad.Metrics = &domain.RawMetrics{Impressions: 1200, Clicks: 7, Spend: 10.5, DwellTimeSeconds: floatPtr(4.0)}

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.CampaignSnapshotEntry{entry}, nil)
	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.CampaignSnapshotEntry{previousCampaignEntry("cmp-1")}, nil)

	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.AdSnapshotEntry{ad}, nil)
	// Janela anterior sincronizada e sem anúncios: o cache responde, sem nova
	// busca na origem.
	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.AdSnapshotEntry{}, nil)

	mocked.scoreRecords.EXPECT().Save("acc-1", gomock.Any()).Return(nil)
	mocked.alerts.EXPECT().ListByAccountID("acc-1").Return(nil, nil)
	mocked.syncStates.EXPECT().GetByAccountID("acc-1").Return(nil, nil)

	report, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)

	assert.NoError(t, err)
	require.Len(t, report.Campaigns, 1)
	campaign := report.Campaigns[0]

	require.NotNil(t, campaign.Metrics.Ctr)
	assert.InDelta(t, 0.58, *campaign.Metrics.Ctr, 0.0001)
	require.NotNil(t, campaign.Metrics.Cpc)
	assert.InDelta(t, 1.5, *campaign.Metrics.Cpc, 0.0001)

	// Delta sobre a razão completa (0.5833 vs 0.4), não sobre o valor exibido:
	// 45.83, e não 45.
	require.NotNil(t, campaign.Changes.CtrChange)
	assert.InDelta(t, 45.83, *campaign.Changes.CtrChange, 0.0001)

	require.NotNil(t, campaign.Averages)
	require.NotNil(t, campaign.Averages.CampaignCtr)
	assert.InDelta(t, 0.58, *campaign.Averages.CampaignCtr, 0.0001)

	require.Len(t, campaign.Ads, 1)
	adHealth := campaign.Ads[0]
	require.NotNil(t, adHealth.Metrics.Ctr)
	assert.InDelta(t, 0.58, *adHealth.Metrics.Ctr, 0.0001)

	// Único anúncio da campanha: delta zero contra a própria média, sem o ruído
	// que o arredondamento precoce introduziria.
	require.NotNil(t, adHealth.Diagnostic.CtrDelta)
	assert.InDelta(t, 0, *adHealth.Diagnostic.CtrDelta, 0.0001)
}

func TestGetHealthReportPersistFailureDoesNotAbort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mocked := newService(ctrl)

	mocked.accountRepo.EXPECT().GetAccountByExternalID("act_123").Return(testAccount(), nil)

	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.CampaignSnapshotEntry{campaignEntry("cmp-1")}, nil)
	mocked.campaignSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.CampaignSnapshotEntry{previousCampaignEntry("cmp-1")}, nil)

	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", currentStart, currentEnd).
		Return([]*domain.AdSnapshotEntry{}, nil)
	mocked.adSnapshots.EXPECT().
		GetByAccountAndPeriod("acc-1", previousStart, previousEnd).
		Return([]*domain.AdSnapshotEntry{}, nil)

	mocked.scoreRecords.EXPECT().
		Save("acc-1", gomock.Any()).
		Return(fmt.Errorf("disco cheio"))
	mocked.alerts.EXPECT().ListByAccountID("acc-1").Return(nil, fmt.Errorf("timeout"))
	mocked.syncStates.EXPECT().GetByAccountID("acc-1").Return(nil, fmt.Errorf("timeout"))

	report, err := service.GetHealthReport("act_123", domain.ComparisonModeRolling28, referenceTime)

	assert.NoError(t, err)
	assert.Len(t, report.Campaigns, 1)
	assert.True(t, report.Campaigns[0].Score.Scored())
	assert.Empty(t, report.Campaigns[0].Ads)
}
