package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	repomocks "github.com/vfg2006/campaign-health-api/infrastructure/repository/mocks"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/internal/scheduler/mocks"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing"
)

func newSyncService(ctrl *gomock.Controller) (*SnapshotSyncService, *repomocks.MockAccountRepository, *repomocks.MockCampaignSnapshotRepository, *repomocks.MockAdSnapshotRepository, *repomocks.MockSyncStateRepository, *mocks.MockSnapshotSource) {
	accountRepo := repomocks.NewMockAccountRepository(ctrl)
	campaignSnapshots := repomocks.NewMockCampaignSnapshotRepository(ctrl)
	adSnapshots := repomocks.NewMockAdSnapshotRepository(ctrl)
	syncStates := repomocks.NewMockSyncStateRepository(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)

	service := &SnapshotSyncService{
		config: SnapshotSyncConfig{
			CronSchedule:      "0 4 * * *",
			MaxConcurrentJobs: 2,
			RetentionDays:     180,
			SyncEnabled:       true,
		},
		accountRepo:       accountRepo,
		campaignSnapshots: campaignSnapshots,
		adSnapshots:       adSnapshots,
		scoreRecords:      repomocks.NewMockScoreRecordRepository(ctrl),
		syncStates:        syncStates,
		source:            source,
	}

	return service, accountRepo, campaignSnapshots, adSnapshots, syncStates, source
}

func TestSyncWindowsDeduplicates(t *testing.T) {
	asOf := time.Date(2025, time.June, 15, 4, 0, 0, 0, time.UTC)

	windows := syncWindows(asOf)

	// rolling28 e fullMonth produzem quatro janelas distintas nesse instante.
	assert.Len(t, windows, 4)

	seen := make(map[string]struct{})
	for _, window := range windows {
		key := window.Start.Format(time.DateOnly) + "/" + window.End.Format(time.DateOnly)
		_, duplicated := seen[key]
		assert.False(t, duplicated, "janela repetida: %s", key)
		seen[key] = struct{}{}

		assert.False(t, window.End.Before(window.Start))
	}
}

func TestSyncAccountsRegistersDiscoveredAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, accountRepo, _, _, _, source := newSyncService(ctrl)

	discovered := []*domain.AdAccount{
		{ExternalID: "111", Name: "Loja A", BusinessManagerID: "bm-1", BusinessManagerName: "Grupo A"},
		{ExternalID: "222", Name: "Loja B", BusinessManagerID: "bm-1", BusinessManagerName: "Grupo A"},
	}

	source.EXPECT().GetAdAccounts().Return(discovered, nil)
	accountRepo.EXPECT().
		SaveOrUpdateBusinessManager(gomock.Any()).
		DoAndReturn(func(bms []*domain.BusinessManager) (map[string]string, error) {
			assert.Len(t, bms, 1)
			assert.Equal(t, "bm-1", bms[0].ExternalID)
			assert.Equal(t, "meta", bms[0].Origin)
			return map[string]string{"bm-1": "internal-bm"}, nil
		})
	accountRepo.EXPECT().SaveOrUpdate(discovered, map[string]string{"bm-1": "internal-bm"}).Return(nil)

	service.syncAccounts()
}

func TestSyncAccountsToleratesSourceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _, _, source := newSyncService(ctrl)

	source.EXPECT().GetAdAccounts().Return(nil, fmt.Errorf("api indisponível"))

	// Não deve tocar no repositório nem entrar em pânico.
	service.syncAccounts()
}

func TestSyncWindowStampsEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, campaignSnapshots, adSnapshots, _, source := newSyncService(ctrl)

	account := &domain.AdAccount{ID: "acc-1", ExternalID: "111", Name: "Loja A"}
	window := diagnosing.PeriodWindow{
		Start: time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}

	source.EXPECT().
		GetCampaignSnapshots("111", window.Start, window.End).
		Return([]*domain.CampaignSnapshotEntry{{CampaignID: "cmp-1"}}, nil)
	campaignSnapshots.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(entry *domain.CampaignSnapshotEntry) error {
			assert.Equal(t, "acc-1", entry.AccountID)
			assert.Equal(t, window.Start, entry.PeriodStart)
			assert.Equal(t, window.End, entry.PeriodEnd)
			return nil
		})

	source.EXPECT().
		GetAdSnapshots("111", window.Start, window.End).
		Return([]*domain.AdSnapshotEntry{{AdID: "ad-1", CampaignID: "cmp-1"}}, nil)
	adSnapshots.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(entry *domain.AdSnapshotEntry) error {
			assert.Equal(t, "acc-1", entry.AccountID)
			assert.Equal(t, window.Start, entry.PeriodStart)
			return nil
		})

	service.syncWindow(account, window)
}

func TestSyncWindowAbortsOnSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _, _, source := newSyncService(ctrl)

	account := &domain.AdAccount{ID: "acc-1", ExternalID: "111"}
	window := diagnosing.PeriodWindow{
		Start: time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}

	source.EXPECT().
		GetCampaignSnapshots("111", window.Start, window.End).
		Return(nil, fmt.Errorf("rate limit"))

	// Sem snapshots de campanha a janela inteira é abandonada.
	service.syncWindow(account, window)
}

func TestSyncAccountSnapshotsUpdatesSyncState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _, syncStates, source := newSyncService(ctrl)

	account := &domain.AdAccount{ID: "acc-1", ExternalID: "111"}
	window := diagnosing.PeriodWindow{
		Start: time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}

	source.EXPECT().GetCampaignSnapshots("111", window.Start, window.End).Return(nil, nil)
	source.EXPECT().GetAdSnapshots("111", window.Start, window.End).Return(nil, nil)

	syncStates.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(state *domain.SyncState) error {
			assert.Equal(t, "acc-1", state.AccountID)
			assert.NotNil(t, state.LastSyncAt)
			assert.Equal(t, "0 4 * * *", state.Frequency)
			return nil
		})

	service.syncAccountSnapshots(account, []diagnosing.PeriodWindow{window})
}
