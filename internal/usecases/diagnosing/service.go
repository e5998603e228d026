package diagnosing

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/infrastructure/repository"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/internal/usecases/scoring"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// Service implementa HealthReporter sobre os caches de snapshot, com fallback
// para a origem (Meta) quando a janela pedida ainda não foi sincronizada.
type Service struct {
	scoringCfg        scoring.Config
	snapshotSource    SnapshotSource
	accountRepository repository.AccountRepository
	campaignSnapshots repository.CampaignSnapshotRepository
	adSnapshots       repository.AdSnapshotRepository
	scoreRecords      repository.ScoreRecordRepository
	syncStates        repository.SyncStateRepository
	alertRepository   repository.AlertRepository
}

func NewService(
	scoringCfg scoring.Config,
	snapshotSource SnapshotSource,
	accountRepo repository.AccountRepository,
	campaignSnapshotRepo repository.CampaignSnapshotRepository,
	adSnapshotRepo repository.AdSnapshotRepository,
	scoreRecordRepo repository.ScoreRecordRepository,
	syncStateRepo repository.SyncStateRepository,
	alertRepo repository.AlertRepository,
) HealthReporter {
	return &Service{
		scoringCfg:        scoringCfg,
		snapshotSource:    snapshotSource,
		accountRepository: accountRepo,
		campaignSnapshots: campaignSnapshotRepo,
		adSnapshots:       adSnapshotRepo,
		scoreRecords:      scoreRecordRepo,
		syncStates:        syncStateRepo,
		alertRepository:   alertRepo,
	}
}

// campaignResult carrega o resultado de uma campanha avaliada na pool de
// workers; skipped acumula as entidades descartadas da campanha e dos seus
// anúncios.
type campaignResult struct {
	health  *domain.CampaignHealth
	skipped []*domain.SkippedEntity
}

func (s *Service) GetHealthReport(accountID string, mode domain.ComparisonMode, asOf time.Time) (*domain.HealthReport, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	switch mode {
	case domain.ComparisonModeRolling28, domain.ComparisonModeFullMonth:
	default:
		return nil, ErrInvalidMode
	}

	account, err := s.accountRepository.GetAccountByExternalID(accountID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", accountID).Error("Erro ao buscar conta pelo ID externo")
		return nil, err
	}

	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}

	currentWindow, previousWindow := DeriveWindows(mode, asOf)

	campaignsCurrent, currentSynced, err := s.loadCampaignWindow(account, currentWindow)
	if err != nil {
		return nil, err
	}

	campaignsPrevious, previousSynced, err := s.loadCampaignWindow(account, previousWindow)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).
			Warn("Erro ao carregar snapshots de campanha do período anterior; tendências ficarão indisponíveis")
		campaignsPrevious = nil
		previousSynced = false
	}

	adsCurrent, err := s.loadAdWindow(account, currentWindow, currentSynced)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).
			Warn("Erro ao carregar snapshots de anúncio do período corrente")
		adsCurrent = nil
	}

	adsPrevious, err := s.loadAdWindow(account, previousWindow, previousSynced)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).
			Warn("Erro ao carregar snapshots de anúncio do período anterior")
		adsPrevious = nil
	}

	previousByCampaign := make(map[string]*domain.CampaignSnapshotEntry, len(campaignsPrevious))
	for _, entry := range campaignsPrevious {
		previousByCampaign[entry.CampaignID] = entry
	}

	adsByCampaign := make(map[string][]*domain.AdSnapshotEntry)
	for _, entry := range adsCurrent {
		adsByCampaign[entry.CampaignID] = append(adsByCampaign[entry.CampaignID], entry)
	}

	previousByAd := make(map[string]*domain.AdSnapshotEntry, len(adsPrevious))
	for _, entry := range adsPrevious {
		previousByAd[entry.AdID] = entry
	}

	baseline := accountBaseline(campaignsCurrent)

	// Fan-out das campanhas com concorrência limitada; cada worker escreve o
	// resultado no próprio slot, a ordenação final acontece depois.
	const maxConcurrent = 5
	semaphore := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	results := make([]*campaignResult, len(campaignsCurrent))

	for i, entry := range campaignsCurrent {
		wg.Add(1)

		go func(i int, entry *domain.CampaignSnapshotEntry) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = s.evaluateCampaign(
				account.ID,
				entry,
				previousByCampaign[entry.CampaignID],
				adsByCampaign[entry.CampaignID],
				previousByAd,
				baseline,
				asOf,
			)
		}(i, entry)
	}

	wg.Wait()

	report := &domain.HealthReport{
		AccountID:   account.ExternalID,
		AccountName: account.Name,
		Mode:        mode,
		Campaigns:   make([]*domain.CampaignHealth, 0, len(results)),
		Alerts:      make([]*domain.Alert, 0),
		Skipped:     make([]*domain.SkippedEntity, 0),
		GeneratedAt: asOf,
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		if result.health != nil {
			report.Campaigns = append(report.Campaigns, result.health)
		}
		report.Skipped = append(report.Skipped, result.skipped...)
	}

	sort.Slice(report.Campaigns, func(i, j int) bool {
		return report.Campaigns[i].CampaignID < report.Campaigns[j].CampaignID
	})
	sort.Slice(report.Skipped, func(i, j int) bool {
		if report.Skipped[i].Kind != report.Skipped[j].Kind {
			return report.Skipped[i].Kind < report.Skipped[j].Kind
		}
		return report.Skipped[i].ID < report.Skipped[j].ID
	})

	alerts, err := s.alertRepository.ListByAccountID(account.ID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Warn("Erro ao buscar alertas da conta")
	} else if alerts != nil {
		report.Alerts = alerts
	}

	syncState, err := s.syncStates.GetByAccountID(account.ID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Warn("Erro ao buscar estado de sincronização da conta")
	} else if syncState != nil {
		report.LastSyncAt = syncState.LastSyncAt
		report.SyncFrequency = syncState.Frequency
	}

	return report, nil
}

// loadCampaignWindow lê os snapshots de campanha do cache; janela vazia cai
// para a origem e alimenta o cache na volta. O segundo retorno informa se a
// janela já estava sincronizada no cache.
func (s *Service) loadCampaignWindow(account *domain.AdAccount, window PeriodWindow) ([]*domain.CampaignSnapshotEntry, bool, error) {
	entries, err := s.campaignSnapshots.GetByAccountAndPeriod(account.ID, window.Start, window.End)
	if err != nil {
		return nil, false, err
	}

	if len(entries) > 0 {
		return entries, true, nil
	}

	logrus.WithFields(logrus.Fields{
		"account_id":   account.ID,
		"period_start": window.Start.Format(time.DateOnly),
		"period_end":   window.End.Format(time.DateOnly),
	}).Info("Cache sem snapshots de campanha para a janela; buscando da origem")

	fetched, err := s.snapshotSource.GetCampaignSnapshots(account.ExternalID, window.Start, window.End)
	if err != nil {
		return nil, false, err
	}

	for _, entry := range fetched {
		entry.AccountID = account.ID
		entry.PeriodStart = window.Start
		entry.PeriodEnd = window.End

		if err := s.campaignSnapshots.SaveOrUpdate(entry); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id":  account.ID,
				"campaign_id": entry.CampaignID,
			}).Warn("Erro ao salvar snapshot de campanha no cache")
		}
	}

	return fetched, false, nil
}

// loadAdWindow lê os snapshots de anúncio do cache. Janela vazia só cai para a
// origem quando a janela de campanhas também não estava no cache: janela
// sincronizada sem anúncios significa que a conta não veiculou anúncios no
// período, não cache frio.
func (s *Service) loadAdWindow(account *domain.AdAccount, window PeriodWindow, windowSynced bool) ([]*domain.AdSnapshotEntry, error) {
	entries, err := s.adSnapshots.GetByAccountAndPeriod(account.ID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 || windowSynced {
		return entries, nil
	}

	logrus.WithFields(logrus.Fields{
		"account_id":   account.ID,
		"period_start": window.Start.Format(time.DateOnly),
		"period_end":   window.End.Format(time.DateOnly),
	}).Info("Cache sem snapshots de anúncio para a janela; buscando da origem")

	fetched, err := s.snapshotSource.GetAdSnapshots(account.ExternalID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	for _, entry := range fetched {
		entry.AccountID = account.ID
		entry.PeriodStart = window.Start
		entry.PeriodEnd = window.End

		if err := s.adSnapshots.SaveOrUpdate(entry); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": account.ID,
				"ad_id":      entry.AdID,
			}).Warn("Erro ao salvar snapshot de anúncio no cache")
		}
	}

	return fetched, nil
}

// evaluateCampaign avalia uma campanha e seus anúncios. Entidades malformadas
// saem como SkippedEntity sem abortar o restante do lote.
func (s *Service) evaluateCampaign(
	accountID string,
	entry *domain.CampaignSnapshotEntry,
	previousEntry *domain.CampaignSnapshotEntry,
	adEntries []*domain.AdSnapshotEntry,
	previousByAd map[string]*domain.AdSnapshotEntry,
	baseline scoring.AccountBaseline,
	asOf time.Time,
) *campaignResult {
	result := &campaignResult{skipped: make([]*domain.SkippedEntity, 0)}

	if entry.Metrics == nil {
		result.skipped = append(result.skipped, &domain.SkippedEntity{
			Kind:   "campaign",
			ID:     entry.CampaignID,
			Reason: "snapshot sem métricas",
		})
		return result
	}

	if err := entry.Metrics.Validate(); err != nil {
		result.skipped = append(result.skipped, &domain.SkippedEntity{
			Kind:   "campaign",
			ID:     entry.CampaignID,
			Reason: err.Error(),
		})
		return result
	}

	current := scoring.BuildSnapshot(entry.Metrics)

	var previous *domain.MetricSnapshot
	if previousEntry != nil && previousEntry.Metrics != nil {
		if err := previousEntry.Metrics.Validate(); err != nil {
			// Período anterior malformado não invalida a campanha: a avaliação
			// segue sem tendências.
			logrus.WithError(err).WithField("campaign_id", entry.CampaignID).
				Warn("Snapshot anterior malformado; campanha avaliada sem período anterior")
		} else {
			previous = scoring.BuildSnapshot(previousEntry.Metrics)
		}
	}

	record := scoring.ScoreCampaign(scoring.CampaignInput{
		CampaignID:   entry.CampaignID,
		CampaignName: entry.CampaignName,
		Status:       entry.Status,
		Current:      current,
		Previous:     previous,
	}, baseline, s.scoringCfg, asOf)

	evaluationID, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).WithField("campaign_id", entry.CampaignID).
			Warn("Erro ao gerar identificador de avaliação")
	} else {
		record.EvaluationID = evaluationID
	}

	if err := s.scoreRecords.Save(accountID, record); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account_id":  accountID,
			"campaign_id": entry.CampaignID,
		}).Warn("Erro ao persistir avaliação da campanha")
	}

	adInputs, adSnapshots, adSkipped := s.collectAdInputs(adEntries, previousByAd)
	result.skipped = append(result.skipped, adSkipped...)

	averages := scoring.ComputeCampaignAverages(adSnapshots, s.scoringCfg.Floors)

	totalImpressions := 0
	for _, snapshot := range adSnapshots {
		totalImpressions += snapshot.Impressions
	}

	ctx := scoring.CampaignContext{
		TotalImpressions: totalImpressions,
		AdCount:          len(adInputs),
	}

	ads := make([]*domain.AdHealth, 0, len(adInputs))
	diagnostics := make([]*domain.AdDiagnostic, 0, len(adInputs))

	for _, input := range adInputs {
		diagnostic := scoring.DiagnoseAd(input, averages, ctx, s.scoringCfg, asOf)
		diagnostics = append(diagnostics, diagnostic)

		ads = append(ads, &domain.AdHealth{
			AdID:            input.AdID,
			AdName:          input.AdName,
			Status:          input.Status,
			Metrics:         input.Current.Rounded(),
			Changes:         scoring.ComparePeriods(input.Current, input.Previous, s.scoringCfg.Floors).Rounded(),
			Diagnostic:      diagnostic,
			InheritedIssues: record.Issues,
		})
	}

	sort.Slice(ads, func(i, j int) bool {
		return ads[i].AdID < ads[j].AdID
	})

	// As razões e deltas internos ficam em precisão completa; a resposta sai
	// arredondada para duas casas.
	result.health = &domain.CampaignHealth{
		CampaignID:        entry.CampaignID,
		CampaignName:      entry.CampaignName,
		Status:            entry.Status,
		DailyBudget:       entry.DailyBudget,
		Metrics:           current.Rounded(),
		Changes:           scoring.ComparePeriods(current, previous, s.scoringCfg.Floors).Rounded(),
		Score:             record,
		CausationInsights: scoring.AnalyzeCausation(record, diagnostics, s.scoringCfg),
		Averages:          averages.Rounded(),
		Ads:               ads,
	}

	return result
}

// collectAdInputs valida os snapshots de anúncio e monta as entradas do
// diagnóstico; anúncios malformados viram SkippedEntity.
func (s *Service) collectAdInputs(
	adEntries []*domain.AdSnapshotEntry,
	previousByAd map[string]*domain.AdSnapshotEntry,
) ([]scoring.AdInput, []*domain.MetricSnapshot, []*domain.SkippedEntity) {
	inputs := make([]scoring.AdInput, 0, len(adEntries))
	snapshots := make([]*domain.MetricSnapshot, 0, len(adEntries))
	skipped := make([]*domain.SkippedEntity, 0)

	for _, adEntry := range adEntries {
		if adEntry.Metrics == nil {
			skipped = append(skipped, &domain.SkippedEntity{
				Kind:   "ad",
				ID:     adEntry.AdID,
				Reason: "snapshot sem métricas",
			})
			continue
		}

		if err := adEntry.Metrics.Validate(); err != nil {
			skipped = append(skipped, &domain.SkippedEntity{
				Kind:   "ad",
				ID:     adEntry.AdID,
				Reason: err.Error(),
			})
			continue
		}

		current := scoring.BuildSnapshot(adEntry.Metrics)

		var previous *domain.MetricSnapshot
		if prevEntry, ok := previousByAd[adEntry.AdID]; ok && prevEntry.Metrics != nil {
			if err := prevEntry.Metrics.Validate(); err == nil {
				previous = scoring.BuildSnapshot(prevEntry.Metrics)
			}
		}

		inputs = append(inputs, scoring.AdInput{
			AdID:      adEntry.AdID,
			AdName:    adEntry.AdName,
			Status:    adEntry.Status,
			StartedAt: adEntry.StartedAt,
			Current:   current,
			Previous:  previous,
		})
		snapshots = append(snapshots, current)
	}

	return inputs, snapshots, skipped
}

// accountBaseline calcula as médias de custo da conta sobre os snapshots
// correntes de todas as campanhas, ponderadas pelos volumes agregados.
func accountBaseline(campaigns []*domain.CampaignSnapshotEntry) scoring.AccountBaseline {
	totalSpend := 0.0
	totalClicks := 0
	totalImpressions := 0
	totalConversions := 0

	for _, entry := range campaigns {
		if entry.Metrics == nil || entry.Metrics.Validate() != nil {
			continue
		}

		totalSpend += entry.Metrics.Spend
		totalClicks += entry.Metrics.Clicks
		totalImpressions += entry.Metrics.Impressions
		if entry.Metrics.Conversions != nil {
			totalConversions += *entry.Metrics.Conversions
		}
	}

	baseline := scoring.AccountBaseline{}

	if totalClicks > 0 {
		cpc := totalSpend / float64(totalClicks)
		baseline.AvgCpc = &cpc
	}

	if totalImpressions > 0 {
		cpm := totalSpend / float64(totalImpressions) * 1000
		baseline.AvgCpm = &cpm
	}

	if totalConversions > 0 {
		cpa := totalSpend / float64(totalConversions)
		baseline.AvgCpa = &cpa
	}

	return baseline
}
