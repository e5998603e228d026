package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/infrastructure/repository"
	"github.com/vfg2006/campaign-health-api/internal/config"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// SnapshotSource é a origem dos snapshots e das contas de anúncio (Meta).
type SnapshotSource interface {
	GetAdAccounts() ([]*domain.AdAccount, error)
	GetCampaignSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.CampaignSnapshotEntry, error)
	GetAdSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.AdSnapshotEntry, error)
}

// SnapshotSyncConfig representa a configuração do agendador de snapshots
type SnapshotSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	RetentionDays       int
	SyncEnabled         bool
}

// SnapshotSyncService agenda e executa a sincronização dos snapshots de
// campanha e anúncio usados pela avaliação de saúde. Cada rodada pré-aquece as
// janelas corrente e anterior dos dois modos de comparação.
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	accountRepo         repository.AccountRepository
	campaignSnapshots   repository.CampaignSnapshotRepository
	adSnapshots         repository.AdSnapshotRepository
	scoreRecords        repository.ScoreRecordRepository
	syncStates          repository.SyncStateRepository
	source              SnapshotSource
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewSnapshotSyncService cria uma nova instância do serviço de sincronização de snapshots
func NewSnapshotSyncService(
	accountRepo repository.AccountRepository,
	campaignSnapshots repository.CampaignSnapshotRepository,
	adSnapshots repository.AdSnapshotRepository,
	scoreRecords repository.ScoreRecordRepository,
	syncStates repository.SyncStateRepository,
	source SnapshotSource,
	appConfig *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule:        appConfig.SnapshotSync.CronSchedule,
		RequestDelaySeconds: appConfig.SnapshotSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.SnapshotSync.MaxConcurrentJobs,
		RetentionDays:       appConfig.SnapshotSync.RetentionDays,
		SyncEnabled:         appConfig.SnapshotSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"retention_days":        syncConfig.RetentionDays,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots carregada")

	return &SnapshotSyncService{
		scheduler:         scheduler,
		config:            syncConfig,
		accountRepo:       accountRepo,
		campaignSnapshots: campaignSnapshots,
		adSnapshots:       adSnapshots,
		scoreRecords:      scoreRecords,
		syncStates:        syncStates,
		source:            source,
		syncRunning:       false,
	}
}

// Start inicia o agendador
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de snapshots desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de snapshots")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllSnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de snapshots: %w", err)
	}

	// Limpeza de retenção uma vez ao dia, fora do horário de sincronização
	_, err = s.scheduler.Every(1).Day().At("03:30").Do(func() {
		s.cleanupOldData()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de retenção: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de snapshots")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllSnapshots sincroniza as contas e os snapshots de todas as contas ativas
func (s *SnapshotSyncService) syncAllSnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de snapshots para todas as contas ativas")

	s.syncAccounts()

	activeAccounts, err := s.getActiveAccounts()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de contas para sincronização de snapshots")
		return
	}

	if len(activeAccounts) == 0 {
		logrus.Info("Nenhuma conta ativa encontrada para sincronização de snapshots")
		return
	}

	windows := syncWindows(startTime)

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, account := range activeAccounts {
		if account.ExternalID == "" {
			logrus.WithField("account_id", account.ID).Warn("Conta sem external_id. Pulando.")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *domain.AdAccount) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			s.syncAccountSnapshots(acc, windows)
		}(account)
	}

	wg.Wait()

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"accounts": len(activeAccounts),
		"windows":  len(windows),
	}).Info("Sincronização de snapshots concluída")

	s.lastSyncCompletedAt = time.Now()
}

// syncAccounts descobre as contas de anúncio na origem e atualiza o cadastro local
func (s *SnapshotSyncService) syncAccounts() {
	accounts, err := s.source.GetAdAccounts()
	if err != nil {
		logrus.WithError(err).Error("Erro ao descobrir contas de anúncio na origem")
		return
	}

	if len(accounts) == 0 {
		logrus.Info("Nenhuma conta de anúncio descoberta na origem")
		return
	}

	bmsByExternalID := make(map[string]*domain.BusinessManager)
	for _, account := range accounts {
		if account.ID == "" {
			accountID, err := utils.GenerateID()
			if err != nil {
				logrus.WithError(err).Error("Erro ao gerar identificador para conta descoberta")
				return
			}
			account.ID = accountID
		}
		if account.Status == "" {
			account.Status = domain.AdAccountStatusActive
		}

		if account.BusinessManagerID == "" {
			continue
		}

		if _, seen := bmsByExternalID[account.BusinessManagerID]; seen {
			continue
		}

		bmID, err := utils.GenerateID()
		if err != nil {
			logrus.WithError(err).Error("Erro ao gerar identificador para business manager descoberto")
			return
		}

		bmsByExternalID[account.BusinessManagerID] = &domain.BusinessManager{
			ID:         bmID,
			ExternalID: account.BusinessManagerID,
			Name:       account.BusinessManagerName,
			Origin:     "meta",
		}
	}

	bms := make([]*domain.BusinessManager, 0, len(bmsByExternalID))
	for _, bm := range bmsByExternalID {
		bms = append(bms, bm)
	}

	businessManagerIDs, err := s.accountRepo.SaveOrUpdateBusinessManager(bms)
	if err != nil {
		logrus.WithError(err).Error("Erro ao salvar business managers")
		return
	}

	if err := s.accountRepo.SaveOrUpdate(accounts, businessManagerIDs); err != nil {
		logrus.WithError(err).Error("Erro ao salvar contas de anúncio")
		return
	}

	logrus.WithField("accounts", len(accounts)).Info("Cadastro de contas de anúncio atualizado")
}

// getActiveAccounts busca e filtra contas ativas
func (s *SnapshotSyncService) getActiveAccounts() ([]*domain.AdAccount, error) {
	activeAccounts, err := s.accountRepo.ListAccounts([]domain.AdAccountStatus{domain.AdAccountStatusActive})
	if err != nil {
		return nil, err
	}

	if len(activeAccounts) == 0 {
		logrus.Info("Nenhuma conta encontrada para sincronização de snapshots")
		return []*domain.AdAccount{}, nil
	}

	logrus.WithFields(logrus.Fields{
		"active_accounts": len(activeAccounts),
	}).Info("Contas encontradas para sincronização de snapshots")

	return activeAccounts, nil
}

// syncWindows deriva as janelas a pré-aquecer: corrente e anterior de cada
// modo de comparação, deduplicadas.
func syncWindows(asOf time.Time) []diagnosing.PeriodWindow {
	windows := make([]diagnosing.PeriodWindow, 0, 4)
	seen := make(map[string]struct{}, 4)

	for _, mode := range []domain.ComparisonMode{domain.ComparisonModeRolling28, domain.ComparisonModeFullMonth} {
		current, previous := diagnosing.DeriveWindows(mode, asOf)

		for _, window := range []diagnosing.PeriodWindow{current, previous} {
			key := window.Start.Format(time.DateOnly) + "/" + window.End.Format(time.DateOnly)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			windows = append(windows, window)
		}
	}

	return windows
}

// syncAccountSnapshots busca e persiste os snapshots de uma conta para todas as janelas
func (s *SnapshotSyncService) syncAccountSnapshots(acc *domain.AdAccount, windows []diagnosing.PeriodWindow) {
	logrus.WithFields(logrus.Fields{
		"account_id":   acc.ID,
		"external_id":  acc.ExternalID,
		"account_name": acc.Name,
		"windows":      len(windows),
	}).Info("Processando snapshots para conta")

	for _, window := range windows {
		s.syncWindow(acc, window)

		// Aguardar antes da próxima requisição para evitar sobrecarga na API
		time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
	}

	now := time.Now()
	err := s.syncStates.Upsert(&domain.SyncState{
		AccountID:  acc.ID,
		LastSyncAt: &now,
		Frequency:  s.config.CronSchedule,
	})
	if err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Warn("Erro ao atualizar estado de sincronização da conta")
	}
}

// syncWindow persiste os snapshots de campanha e anúncio de uma janela
func (s *SnapshotSyncService) syncWindow(acc *domain.AdAccount, window diagnosing.PeriodWindow) {
	logFields := logrus.Fields{
		"account_id":   acc.ID,
		"external_id":  acc.ExternalID,
		"period_start": window.Start.Format(time.DateOnly),
		"period_end":   window.End.Format(time.DateOnly),
	}

	campaigns, err := s.source.GetCampaignSnapshots(acc.ExternalID, window.Start, window.End)
	if err != nil {
		logrus.WithError(err).WithFields(logFields).Error("Erro ao buscar snapshots de campanha da origem")
		return
	}

	for _, entry := range campaigns {
		entry.AccountID = acc.ID
		entry.PeriodStart = window.Start
		entry.PeriodEnd = window.End

		if err := s.campaignSnapshots.SaveOrUpdate(entry); err != nil {
			logrus.WithError(err).WithFields(logFields).
				WithField("campaign_id", entry.CampaignID).
				Error("Erro ao salvar snapshot de campanha")
		}
	}

	ads, err := s.source.GetAdSnapshots(acc.ExternalID, window.Start, window.End)
	if err != nil {
		logrus.WithError(err).WithFields(logFields).Error("Erro ao buscar snapshots de anúncio da origem")
		return
	}

	for _, entry := range ads {
		entry.AccountID = acc.ID
		entry.PeriodStart = window.Start
		entry.PeriodEnd = window.End

		if err := s.adSnapshots.SaveOrUpdate(entry); err != nil {
			logrus.WithError(err).WithFields(logFields).
				WithField("ad_id", entry.AdID).
				Error("Erro ao salvar snapshot de anúncio")
		}
	}

	logrus.WithFields(logFields).WithFields(logrus.Fields{
		"campaigns": len(campaigns),
		"ads":       len(ads),
	}).Info("Janela de snapshots sincronizada")
}

// cleanupOldData remove snapshots e avaliações além da janela de retenção
func (s *SnapshotSyncService) cleanupOldData() {
	if s.config.RetentionDays <= 0 {
		return
	}

	removedCampaigns, err := s.campaignSnapshots.DeleteOlderThan(s.config.RetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover snapshots de campanha antigos")
	}

	removedAds, err := s.adSnapshots.DeleteOlderThan(s.config.RetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover snapshots de anúncio antigos")
	}

	removedRecords, err := s.scoreRecords.DeleteOlderThan(s.config.RetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover avaliações antigas")
	}

	logrus.WithFields(logrus.Fields{
		"retention_days":    s.config.RetentionDays,
		"campaigns_removed": removedCampaigns,
		"ads_removed":       removedAds,
		"records_removed":   removedRecords,
	}).Info("Limpeza de retenção concluída")
}

// TriggerManualSync inicia manualmente uma sincronização de snapshots
func (s *SnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de snapshots já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de snapshots")
	go s.syncAllSnapshots()
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"retention_days":         s.config.RetentionDays,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
