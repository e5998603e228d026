package meta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-health-api/internal/config"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// Formato de created_time nas entidades da Graph API.
const metaTimeLayout = "2006-01-02T15:04:05-0700"

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// GetCampaignSnapshots busca as campanhas da conta e seus insights agregados
// na janela, e monta um snapshot por campanha. Campanhas sem linha de insight
// no período não aparecem no resultado.
func (s *MetaIntegrator) GetCampaignSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.CampaignSnapshotEntry, error) {
	campaigns, err := s.Client.GetCampaigns(accountExternalID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountExternalID,
			"error":      err.Error(),
		}).Error("snapshots: falha ao listar campanhas da conta")
		return nil, err
	}

	campaignsByID := make(map[string]metadomain.Campaign, len(campaigns))
	for _, campaign := range campaigns {
		campaignsByID[campaign.ID] = campaign
	}

	insights, err := s.Client.GetCampaignInsights(accountExternalID, periodStart, periodEnd)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountExternalID,
			"error":      err.Error(),
		}).Error("snapshots: falha ao buscar insights de campanha")
		return nil, err
	}

	entries := make([]*domain.CampaignSnapshotEntry, 0, len(insights))
	for i := range insights {
		insight := insights[i]

		entry := &domain.CampaignSnapshotEntry{
			CampaignID:   insight.CampaignID,
			CampaignName: insight.CampaignName,
			Status:       domain.CampaignStatusActive,
			Metrics:      factorySnapshotMetrics(&insight.InsightMetrics),
		}

		if campaign, ok := campaignsByID[insight.CampaignID]; ok {
			entry.Status = campaignStatus(campaign.Status)
			entry.DailyBudget = parseDailyBudget(campaign.DailyBudget)
			if campaign.Name != "" {
				entry.CampaignName = campaign.Name
			}
		}

		entries = append(entries, entry)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountExternalID,
		"campaigns":  len(entries),
	}).Debug("snapshots: insights de campanha recuperados")

	return entries, nil
}

// GetAdSnapshots monta um snapshot por anúncio a partir dos insights da janela
// e da listagem de anúncios, que fornece status e data de criação.
func (s *MetaIntegrator) GetAdSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.AdSnapshotEntry, error) {
	ads, err := s.Client.GetAds(accountExternalID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountExternalID,
			"error":      err.Error(),
		}).Error("snapshots: falha ao listar anúncios da conta")
		return nil, err
	}

	adsByID := make(map[string]metadomain.Ad, len(ads))
	for _, ad := range ads {
		adsByID[ad.ID] = ad
	}

	insights, err := s.Client.GetAdInsights(accountExternalID, periodStart, periodEnd)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountExternalID,
			"error":      err.Error(),
		}).Error("snapshots: falha ao buscar insights de anúncio")
		return nil, err
	}

	entries := make([]*domain.AdSnapshotEntry, 0, len(insights))
	for i := range insights {
		insight := insights[i]

		entry := &domain.AdSnapshotEntry{
			CampaignID: insight.CampaignID,
			AdID:       insight.AdID,
			AdName:     insight.AdName,
			Status:     domain.AdStatusActive,
			Metrics:    factorySnapshotMetrics(&insight.InsightMetrics),
		}

		if ad, ok := adsByID[insight.AdID]; ok {
			entry.Status = adStatus(ad.Status)
			if ad.Name != "" {
				entry.AdName = ad.Name
			}

			startedAt, err := time.Parse(metaTimeLayout, ad.CreatedTime)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"ad_id":        ad.ID,
					"created_time": ad.CreatedTime,
				}).Warn("snapshots: erro ao converter data de criação do anúncio")
			} else {
				entry.StartedAt = startedAt
			}
		}

		entries = append(entries, entry)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountExternalID,
		"ads":        len(entries),
	}).Debug("snapshots: insights de anúncio recuperados")

	return entries, nil
}

func (s *MetaIntegrator) GetAdAccounts() ([]*domain.AdAccount, error) {
	bms, err := s.getBusinessManagers()
	if err != nil {
		logrus.WithError(err).Error("snapshots: falha ao listar business managers")
		return nil, err
	}

	allAdAccounts := make([]*domain.AdAccount, 0)
	for _, b := range bms {
		logrus.WithFields(logrus.Fields{
			"business_id":   b.ID,
			"business_name": b.Name,
		}).Debug("snapshots: buscando contas de anúncio do business")

		adAccounts, err := s.Client.GetAdAccountsByBusinessID(b.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"business_id": b.ID,
				"error":       err.Error(),
			}).Error("snapshots: falha ao buscar contas de anúncio do business")
			continue
		}

		for _, adAccount := range adAccounts {
			allAdAccounts = append(allAdAccounts, &domain.AdAccount{
				ExternalID:          strings.TrimPrefix(adAccount.ID, "act_"),
				Name:                adAccount.Name,
				Nickname:            &adAccount.Name,
				Currency:            adAccount.Currency,
				Origin:              "meta",
				BusinessManagerID:   b.ID,
				BusinessManagerName: b.Name,
			})
		}
	}

	logrus.WithField("total_accounts", len(allAdAccounts)).Info("snapshots: contas de anúncio recuperadas")

	return allAdAccounts, nil
}

func (s *MetaIntegrator) getBusinessManagers() ([]metadomain.BusinessManager, error) {
	if err := s.Client.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	url := fmt.Sprintf("%s/me/businesses?limit=100&access_token=%s", s.cfg.Meta.URL, s.cfg.Meta.AccessToken)

	data, err := utils.MakeRequest(url)
	if err != nil {
		if strings.Contains(err.Error(), "Error on Request") {
			if refreshErr := s.Client.RefreshToken(); refreshErr != nil {
				return nil, fmt.Errorf("erro ao renovar token: %w", refreshErr)
			}

			url = fmt.Sprintf("%s/me/businesses?limit=100&access_token=%s", s.cfg.Meta.URL, s.cfg.Meta.AccessToken)

			data, err = utils.MakeRequest(url)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	var response struct {
		Data []metadomain.BusinessManager `json:"data"`
	}
	err = json.Unmarshal(data, &response)
	if err != nil {
		return nil, err
	}

	return response.Data, nil
}

// factorySnapshotMetrics converte os contadores em string de uma linha de
// insight para as métricas brutas do domínio. Métricas que a API não reporta
// para a conta ficam nil.
func factorySnapshotMetrics(insight *metadomain.InsightMetrics) *domain.RawMetrics {
	metrics := &domain.RawMetrics{
		Impressions: parseIntField(insight.Impressions, "impressions"),
		Clicks:      parseIntField(insight.Clicks, "clicks"),
		Spend:       parseFloatField(insight.Spend, "spend"),
	}

	if insight.Frequency != "" {
		frequency := parseFloatField(insight.Frequency, "frequency")
		metrics.Frequency = &frequency
	}

	metrics.Conversions = insight.Conversions()
	metrics.DwellTimeSeconds = insight.DwellSeconds()

	// Penetração de audiência e aderência de senioridade não vêm da Graph API;
	// quando existem, são preenchidas por enriquecimento próprio no banco.

	return metrics
}

func campaignStatus(status string) domain.CampaignStatus {
	if status == "ACTIVE" {
		return domain.CampaignStatusActive
	}
	return domain.CampaignStatusPaused
}

func adStatus(status string) domain.AdStatus {
	if status == "ACTIVE" {
		return domain.AdStatusActive
	}
	return domain.AdStatusPaused
}

// parseDailyBudget converte o orçamento diário, reportado em centavos.
func parseDailyBudget(raw string) *float64 {
	if raw == "" {
		return nil
	}

	cents, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithError(err).WithField("daily_budget", raw).
			Warn("snapshots: erro ao converter orçamento diário")
		return nil
	}

	budget := utils.RoundWithTwoDecimalPlace(cents / 100)
	return &budget
}

func parseIntField(raw, field string) int {
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"field": field,
			"value": raw,
		}).Warn("snapshots: erro ao converter campo inteiro")
		return 0
	}

	return value
}

func parseFloatField(raw, field string) float64 {
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"field": field,
			"value": raw,
		}).Warn("snapshots: erro ao converter campo numérico")
		return 0
	}

	return value
}
