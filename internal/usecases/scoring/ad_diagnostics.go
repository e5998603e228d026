package scoring

import (
	"fmt"
	"time"

	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// AdInput é tudo que o diagnóstico precisa sobre um anúncio. Previous é o
// snapshot do próprio anúncio no período anterior, usado apenas para o sinal
// de fadiga.
type AdInput struct {
	AdID      string
	AdName    string
	Status    domain.AdStatus
	StartedAt time.Time
	Current   *domain.MetricSnapshot
	Previous  *domain.MetricSnapshot
}

// CampaignContext é o que o anúncio precisa saber sobre os irmãos: total de
// impressões da campanha (para a fatia de distribuição) e quantidade de
// anúncios no grupo.
type CampaignContext struct {
	TotalImpressions int
	AdCount          int
}

// DiagnoseAd avalia um anúncio contra as médias da sua campanha: idade, status
// por métrica, distribuição de impressões, fadiga, padrão de conflito, tier de
// contribuição e recomendação. O instante de referência é passado
// explicitamente para manter a avaliação determinística.
func DiagnoseAd(input AdInput, averages *domain.CampaignAverages, ctx CampaignContext, cfg Config, asOf time.Time) *domain.AdDiagnostic {
	diagnostic := &domain.AdDiagnostic{
		AdID:   input.AdID,
		AdName: input.AdName,
	}

	diagnostic.AgeDays = ageInDays(input.StartedAt, asOf)
	diagnostic.AgeState = classifyAge(diagnostic.AgeDays, cfg)

	impressions := 0
	if input.Current != nil {
		impressions = input.Current.Impressions
	}

	// Portão de volume: abaixo do piso o anúncio sai do ranking de
	// contribuição, mas as demais classificações ainda são calculadas onde os
	// dados permitem, para a interface poder exibir os números brutos.
	if impressions < cfg.Floors.AdImpressions {
		diagnostic.LowVolume = true
		diagnostic.LowVolumeReason = fmt.Sprintf(
			"mínimo de %d impressões não atingido (%d no período)",
			cfg.Floors.AdImpressions, impressions,
		)
	}

	if input.Current != nil && averages != nil {
		diagnostic.CtrDelta, diagnostic.CtrStatus = metricStatus(
			input.Current.Ctr, averages.CampaignCtr, true, cfg.AdStrongDeltaPct, cfg.AdWeakCtrPct,
		)
		diagnostic.DwellDelta, diagnostic.DwellStatus = metricStatus(
			input.Current.DwellTimeSeconds, averages.CampaignDwell, true, cfg.AdStrongDeltaPct, cfg.AdWeakDwellPct,
		)
		diagnostic.CpcDelta, diagnostic.CpcStatus = metricStatus(
			input.Current.Cpc, averages.CampaignCpc, false, cfg.AdStrongDeltaPct, cfg.AdWeakCpcPct,
		)
	}

	diagnostic.ImpressionShare, diagnostic.DistributionFlag = classifyDistribution(impressions, ctx.TotalImpressions, cfg)
	diagnostic.FatigueFlag = classifyFatigue(input, diagnostic.AgeState, cfg)

	if !diagnostic.LowVolume {
		diagnostic.ConflictReason = detectConflict(diagnostic, ctx)
	}

	diagnostic.Contribution = classifyContribution(diagnostic, averages)
	diagnostic.Recommendation = recommend(input.Status, diagnostic)

	return diagnostic
}

func ageInDays(startedAt, asOf time.Time) int {
	if startedAt.IsZero() || startedAt.After(asOf) {
		return 0
	}

	return int(asOf.Sub(startedAt).Hours() / 24)
}

func classifyAge(ageDays int, cfg Config) domain.AdAgeState {
	switch {
	case ageDays <= cfg.LearningMaxAgeDays:
		return domain.AdAgeStateLearning
	case ageDays <= cfg.StableMaxAgeDays:
		return domain.AdAgeStateStable
	default:
		return domain.AdAgeStateFatigueRisk
	}
}

// metricStatus calcula o delta do anúncio vs. a média da campanha e o status
// correspondente. Para métricas de custo (higherIsBetter=false) o delta é
// invertido: custo abaixo da média é positivo (eficiente).
func metricStatus(adValue, campaignAvg *float64, higherIsBetter bool, strongPct, weakPct float64) (*float64, *domain.MetricStatus) {
	if adValue == nil || campaignAvg == nil || *campaignAvg == 0 {
		return nil, nil
	}

	delta := (*adValue - *campaignAvg) / *campaignAvg * 100
	if !higherIsBetter {
		delta = (*campaignAvg - *adValue) / *campaignAvg * 100
	}
	delta = utils.RoundWithTwoDecimalPlace(delta)

	var status domain.MetricStatus
	switch {
	case delta >= strongPct:
		status = domain.MetricStatusStrong
		if !higherIsBetter {
			status = domain.MetricStatusEfficient
		}
	case delta <= weakPct:
		status = domain.MetricStatusWeak
		if !higherIsBetter {
			status = domain.MetricStatusInefficient
		}
	default:
		status = domain.MetricStatusNeutral
	}

	return &delta, &status
}

func classifyDistribution(adImpressions, totalImpressions int, cfg Config) (*float64, domain.DistributionFlag) {
	if totalImpressions <= 0 {
		return nil, domain.DistributionNormal
	}

	share := utils.RoundWithTwoDecimalPlace(float64(adImpressions) / float64(totalImpressions) * 100)

	switch {
	case share >= cfg.OverServedSharePct:
		return &share, domain.DistributionOverServed
	case share < cfg.UnderServedSharePct:
		return &share, domain.DistributionUnderServed
	default:
		return &share, domain.DistributionNormal
	}
}

// classifyFatigue: um anúncio em fatigue_risk cujo CTR vem caindo de forma
// relevante contra o próprio período anterior está fatigado; se a tendência é
// estável ou positiva, está envelhecendo bem.
func classifyFatigue(input AdInput, ageState domain.AdAgeState, cfg Config) domain.FatigueFlag {
	if ageState != domain.AdAgeStateFatigueRisk {
		return domain.FatigueFlagNotFatigued
	}

	trends := ComparePeriods(input.Current, input.Previous, cfg.Floors)
	if trends.CtrChange != nil && *trends.CtrChange <= cfg.FatigueCtrTrendPct {
		return domain.FatigueFlagFatigued
	}

	return domain.FatigueFlagAgeingButOk
}

// detectConflict avalia os padrões anômalos em ordem de prioridade e mantém
// apenas o primeiro que casar.
func detectConflict(d *domain.AdDiagnostic, ctx CampaignContext) *domain.ConflictReason {
	ctrWeak := d.CtrStatus != nil && *d.CtrStatus == domain.MetricStatusWeak
	ctrStrong := d.CtrStatus != nil && *d.CtrStatus == domain.MetricStatusStrong
	ctrNeutralOrStrong := d.CtrStatus != nil && (*d.CtrStatus == domain.MetricStatusNeutral || *d.CtrStatus == domain.MetricStatusStrong)
	dwellStrong := d.DwellStatus != nil && *d.DwellStatus == domain.MetricStatusStrong
	dwellWeak := d.DwellStatus != nil && *d.DwellStatus == domain.MetricStatusWeak
	cpcInefficient := d.CpcStatus != nil && *d.CpcStatus == domain.MetricStatusInefficient
	overServed := d.DistributionFlag == domain.DistributionOverServed

	var reason domain.ConflictReason

	switch {
	case ctrWeak && dwellStrong:
		reason = domain.ConflictSeniorAudienceOrMessageDepth
	case ctrStrong && dwellWeak:
		reason = domain.ConflictCuriosityClicks
	case overServed && (ctrWeak || cpcInefficient):
		reason = domain.ConflictAlgorithmOverServingWeakAd
	case overServed && ctrNeutralOrStrong && ctx.AdCount >= 3:
		// Concentração de risco, não um problema de performance: um único
		// anúncio saudável carregando a campanha inteira.
		reason = domain.ConflictTopAdOverServed
	default:
		return nil
	}

	return &reason
}

// classifyContribution: pelo menos duas métricas boas e nenhuma ruim sobe o
// anúncio para high_contributor; duas ruins derrubam para weak_contributor.
func classifyContribution(d *domain.AdDiagnostic, averages *domain.CampaignAverages) domain.ContributionTier {
	if d.LowVolume || averages == nil {
		return domain.ContributionNotEvaluable
	}

	if d.AgeState == domain.AdAgeStateLearning {
		return domain.ContributionLearning
	}

	good, bad := 0, 0
	for _, status := range []*domain.MetricStatus{d.CtrStatus, d.DwellStatus, d.CpcStatus} {
		if status == nil {
			continue
		}
		if status.IsGood() {
			good++
		}
		if status.IsBad() {
			bad++
		}
	}

	switch {
	case good >= 2 && bad == 0:
		return domain.ContributionHigh
	case bad >= 2:
		return domain.ContributionWeak
	default:
		return domain.ContributionNeutral
	}
}

// recommend é a tabela determinística de recomendação. Conflitos de
// distribuição têm precedência sobre o mapeamento por tier.
func recommend(status domain.AdStatus, d *domain.AdDiagnostic) domain.AdRecommendation {
	if status == domain.AdStatusPaused {
		return domain.RecommendNoActionAdPaused
	}

	if d.Contribution == domain.ContributionNotEvaluable {
		return domain.RecommendInsufficientData
	}

	if d.ConflictReason != nil {
		switch *d.ConflictReason {
		case domain.ConflictAlgorithmOverServingWeakAd:
			return domain.RecommendReduceImpressionShareOrPause
		case domain.ConflictTopAdOverServed:
			return domain.RecommendCreateVariants
		}
	}

	switch d.Contribution {
	case domain.ContributionLearning:
		return domain.RecommendAllowMoreTime
	case domain.ContributionHigh:
		return domain.RecommendScaleOrDuplicate
	case domain.ContributionWeak:
		if d.FatigueFlag == domain.FatigueFlagFatigued {
			return domain.RecommendRefreshOrReplaceCreative
		}
		return domain.RecommendPauseOrOptimize
	case domain.ContributionNeutral:
		return domain.RecommendKeepRunning
	case domain.ContributionNotEvaluable:
		return domain.RecommendInsufficientData
	}

	return domain.RecommendKeepRunning
}
