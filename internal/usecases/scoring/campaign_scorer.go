package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

// CampaignInput é tudo que o pontuador precisa sobre uma campanha. Previous nil
// significa campanha sem nenhum dado de período anterior.
type CampaignInput struct {
	CampaignID   string
	CampaignName string
	Status       domain.CampaignStatus
	Current      *domain.MetricSnapshot
	Previous     *domain.MetricSnapshot
}

// AccountBaseline são as médias de custo da própria conta, usadas como
// referência para as sub-notas absolutas de CPC/CPM/CPA em vez de valores
// fixos em moeda.
type AccountBaseline struct {
	AvgCpc *float64
	AvgCpm *float64
	AvgCpa *float64
}

// Identificadores de métrica usados no breakdown e no mapeamento de camada
// dos insights de causa.
const (
	MetricDwell       = "dwell_time"
	MetricDwellTrend  = "dwell_trend"
	MetricCtr         = "ctr"
	MetricCtrTrend    = "ctr_trend"
	MetricFrequency   = "frequency"
	MetricCpc         = "cpc"
	MetricCpcTrend    = "cpc_trend"
	MetricCpm         = "cpm"
	MetricCpmTrend    = "cpm_trend"
	MetricCpa         = "cpa"
	MetricPenetration = "audience_penetration"
	MetricSeniority   = "seniority_mix"
)

// ScoreCampaign aplica a rubrica fixa de 100 pontos (Engajamento 45, Custo 35,
// Audiência 20) aos snapshots corrente/anterior de uma campanha. Sub-métricas
// sem dados são excluídas do numerador E do denominador: o total é reescalado
// por earned/possible para manter a comparabilidade entre campanhas com
// disponibilidade de dados diferente.
func ScoreCampaign(input CampaignInput, baseline AccountBaseline, cfg Config, evaluatedAt time.Time) *domain.CampaignScoreRecord {
	record := &domain.CampaignScoreRecord{
		CampaignID:      input.CampaignID,
		CampaignName:    input.CampaignName,
		EvaluatedAt:     evaluatedAt,
		Issues:          []string{},
		PositiveSignals: []string{},
	}

	// Portões de status, avaliados antes de qualquer pontuação.
	if input.Status == domain.CampaignStatusPaused {
		record.Status = domain.ScoringStatusPaused
		record.StatusReason = "campanha pausada na plataforma"
		return record
	}

	if input.Current == nil || input.Current.Impressions < cfg.Floors.CampaignImpressions {
		record.Status = domain.ScoringStatusLowVolume
		record.StatusReason = fmt.Sprintf(
			"volume insuficiente: mínimo de %d impressões no período não atingido",
			cfg.Floors.CampaignImpressions,
		)
		return record
	}

	if input.Previous == nil {
		record.Status = domain.ScoringStatusNewCampaign
		record.StatusReason = "campanha sem dados de período anterior"
		return record
	}

	trends := ComparePeriods(input.Current, input.Previous, cfg.Floors)

	engagement := engagementContributions(input.Current, trends, cfg)
	cost := costContributions(input.Current, trends, baseline, cfg)
	audience := audienceContributions(input.Current, cfg)

	record.EngagementScore, record.EngagementMax = sumGroup(engagement)
	record.CostScore, record.CostMax = sumGroup(cost)
	record.AudienceScore, record.AudienceMax = sumGroup(audience)

	record.Breakdown = make([]*domain.ScoreContribution, 0, len(engagement)+len(cost)+len(audience))
	record.Breakdown = append(record.Breakdown, engagement...)
	record.Breakdown = append(record.Breakdown, cost...)
	record.Breakdown = append(record.Breakdown, audience...)

	earned := record.EngagementScore + record.CostScore + record.AudienceScore
	possible := record.EngagementMax + record.CostMax + record.AudienceMax

	if possible > 0 {
		record.TotalScore = utils.RoundWithTwoDecimalPlace(earned / possible * 100)
	}

	switch {
	case record.TotalScore < 50:
		record.Status = domain.ScoringStatusNeedsAttention
	case record.TotalScore < 70:
		record.Status = domain.ScoringStatusMildIssues
	default:
		record.Status = domain.ScoringStatusPerformingWell
	}

	record.Issues = collectIssues(record.Breakdown)
	record.PositiveSignals = collectPositiveSignals(record.Breakdown)

	return record
}

// Engagement Quality: 45 pontos.
func engagementContributions(current *domain.MetricSnapshot, trends *domain.PeriodComparison, cfg Config) []*domain.ScoreContribution {
	contributions := make([]*domain.ScoreContribution, 0, 5)

	contributions = append(contributions, bandContribution(
		MetricDwell, current.DwellTimeSeconds, cfg.DwellBand, pointsDwellAbsolute,
		fmt.Sprintf("dwell >= %.1fs ganha nota cheia, < %.1fs zera", cfg.DwellBand.Full, cfg.DwellBand.Zero),
	))
	contributions = append(contributions, trendContribution(
		MetricDwellTrend, trends.DwellChange, cfg.DwellTrend, pointsDwellTrend, true,
	))

	contributions = append(contributions, bandContribution(
		MetricCtr, current.Ctr, cfg.CtrBand, pointsCtrAbsolute,
		fmt.Sprintf("CTR >= %.2f%% ganha nota cheia, < %.2f%% zera", cfg.CtrBand.Full, cfg.CtrBand.Zero),
	))
	contributions = append(contributions, trendContribution(
		MetricCtrTrend, trends.CtrChange, cfg.CtrTrend, pointsCtrTrend, true,
	))

	contributions = append(contributions, frequencyContribution(current.Frequency))

	return contributions
}

// Cost Efficiency: 35 pontos. O CPA só é pontuado com conversões suficientes;
// caso contrário os 5 pontos saem do denominador em vez de penalizar campanhas
// de baixa conversão.
func costContributions(current *domain.MetricSnapshot, trends *domain.PeriodComparison, baseline AccountBaseline, cfg Config) []*domain.ScoreContribution {
	contributions := make([]*domain.ScoreContribution, 0, 5)

	contributions = append(contributions, costContribution(
		MetricCpc, current.Cpc, baseline.AvgCpc, cfg, pointsCpcAbsolute,
	))
	contributions = append(contributions, trendContribution(
		MetricCpcTrend, trends.CpcChange, cfg.CpcTrend, pointsCpcTrend, false,
	))

	contributions = append(contributions, costContribution(
		MetricCpm, current.Cpm, baseline.AvgCpm, cfg, pointsCpmAbsolute,
	))
	contributions = append(contributions, trendContribution(
		MetricCpmTrend, trends.CpmChange, cfg.CpmTrend, pointsCpmTrend, false,
	))

	cpa := &domain.ScoreContribution{
		Metric:    MetricCpa,
		Possible:  pointsCpa,
		Threshold: fmt.Sprintf("pontuado apenas com %d+ conversões no período", cfg.MinConversionsForCpa),
	}
	if current.Conversions != nil && *current.Conversions >= cfg.MinConversionsForCpa {
		applied := costContribution(MetricCpa, current.Cpa, baseline.AvgCpa, cfg, pointsCpa)
		if applied.Applied {
			cpa = applied
		}
	}
	contributions = append(contributions, cpa)

	return contributions
}

// Audience Quality: 20 pontos.
func audienceContributions(current *domain.MetricSnapshot, cfg Config) []*domain.ScoreContribution {
	return []*domain.ScoreContribution{
		bandContribution(
			MetricPenetration, current.AudiencePenetrationPct, cfg.PenetrationBand, pointsPenetration,
			fmt.Sprintf("penetração > %.0f%% ganha nota cheia, < %.0f%% zera", cfg.PenetrationBand.Full, cfg.PenetrationBand.Zero),
		),
		bandContribution(
			MetricSeniority, current.SeniorityFitPct, cfg.SeniorityBand, pointsSeniority,
			fmt.Sprintf("mix de senioridade >= %.0f%% no alvo ganha nota cheia", cfg.SeniorityBand.Full),
		),
	}
}

// bandContribution pontua um valor absoluto por interpolação linear na faixa.
func bandContribution(metric string, observed *float64, band Band, max float64, threshold string) *domain.ScoreContribution {
	contribution := &domain.ScoreContribution{
		Metric:    metric,
		Observed:  observed,
		Possible:  max,
		Threshold: threshold,
	}

	if observed == nil {
		return contribution
	}

	contribution.Applied = true
	contribution.Earned = utils.RoundWithTwoDecimalPlace(bandScore(*observed, band, max))
	return contribution
}

func bandScore(value float64, band Band, max float64) float64 {
	if value >= band.Full {
		return max
	}
	if value <= band.Zero {
		return 0
	}

	return (value - band.Zero) / (band.Full - band.Zero) * max
}

// trendContribution pontua um delta percentual. Tendência indisponível é
// excluída de ambos os totais, não só do numerador. Para métricas de custo
// (higherIsBetter=false) o delta é avaliado no espaço de melhora: custo caindo
// é melhora.
func trendContribution(metric string, delta *float64, thresholds TrendThresholds, max float64, higherIsBetter bool) *domain.ScoreContribution {
	direction := "alta"
	if !higherIsBetter {
		direction = "queda"
	}

	contribution := &domain.ScoreContribution{
		Metric:    metric,
		Observed:  delta,
		Possible:  max,
		Threshold: fmt.Sprintf("%s de %.0f%%+ vs. período anterior ganha nota cheia", direction, thresholds.Strong),
	}

	if delta == nil {
		return contribution
	}

	improvement := *delta
	if !higherIsBetter {
		improvement = -improvement
	}

	contribution.Applied = true
	contribution.Earned = utils.RoundWithTwoDecimalPlace(trendScore(improvement, thresholds, max))
	return contribution
}

func trendScore(improvement float64, thresholds TrendThresholds, max float64) float64 {
	if improvement >= thresholds.Strong {
		return max
	}
	if improvement <= thresholds.Weak {
		return 0
	}

	return (improvement - thresholds.Weak) / (thresholds.Strong - thresholds.Weak) * max
}

// costContribution compara o custo da campanha com a média da própria conta:
// dentro de ±tolerância ganha nota cheia, acima de CostZeroPct pior zera.
func costContribution(metric string, observed, accountAvg *float64, cfg Config, max float64) *domain.ScoreContribution {
	contribution := &domain.ScoreContribution{
		Metric:    metric,
		Observed:  observed,
		Possible:  max,
		Threshold: fmt.Sprintf("até %.0f%% acima da média da conta ganha nota cheia, %.0f%%+ zera", cfg.CostTolerancePct, cfg.CostZeroPct),
	}

	if observed == nil || accountAvg == nil || *accountAvg == 0 {
		return contribution
	}

	deviation := (*observed - *accountAvg) / *accountAvg * 100

	contribution.Applied = true

	switch {
	case deviation <= cfg.CostTolerancePct:
		contribution.Earned = max
	case deviation >= cfg.CostZeroPct:
		contribution.Earned = 0
	default:
		contribution.Earned = utils.RoundWithTwoDecimalPlace(
			(cfg.CostZeroPct - deviation) / (cfg.CostZeroPct - cfg.CostTolerancePct) * max,
		)
	}

	return contribution
}

// frequencyContribution: repetição saudável sem desgaste fica em 1.5-3.0.
func frequencyContribution(frequency *float64) *domain.ScoreContribution {
	contribution := &domain.ScoreContribution{
		Metric:    MetricFrequency,
		Observed:  frequency,
		Possible:  pointsFrequency,
		Threshold: "frequência entre 1.5 e 3.0 ganha nota cheia, acima de 6 zera",
	}

	if frequency == nil {
		return contribution
	}

	contribution.Applied = true

	f := *frequency
	switch {
	case f >= 1.5 && f <= 3.0:
		contribution.Earned = pointsFrequency
	case f > 6.0:
		contribution.Earned = 0
	case f > 4.0:
		contribution.Earned = 4
	case f > 3.0:
		contribution.Earned = 7
	default: // abaixo de 1.5: sub-exposição
		contribution.Earned = 6
	}

	return contribution
}

func sumGroup(contributions []*domain.ScoreContribution) (earned, possible float64) {
	for _, c := range contributions {
		if !c.Applied {
			continue
		}
		earned += c.Earned
		possible += c.Possible
	}

	return utils.RoundWithTwoDecimalPlace(earned), utils.RoundWithTwoDecimalPlace(possible)
}

// collectIssues lista toda contribuição aplicada que zerou, da mais severa
// (mais pontos possíveis) para a menos severa.
func collectIssues(breakdown []*domain.ScoreContribution) []string {
	zeroed := make([]*domain.ScoreContribution, 0)
	for _, c := range breakdown {
		if c.Applied && c.Earned == 0 {
			zeroed = append(zeroed, c)
		}
	}

	sort.SliceStable(zeroed, func(i, j int) bool {
		if zeroed[i].Possible != zeroed[j].Possible {
			return zeroed[i].Possible > zeroed[j].Possible
		}
		return zeroed[i].Metric < zeroed[j].Metric
	})

	issues := make([]string, 0, len(zeroed))
	for _, c := range zeroed {
		issues = append(issues, issueMessage(c))
	}

	return issues
}

func collectPositiveSignals(breakdown []*domain.ScoreContribution) []string {
	signals := make([]string, 0)
	for _, c := range breakdown {
		if c.Applied && c.Earned == c.Possible {
			signals = append(signals, positiveMessage(c))
		}
	}

	return signals
}

func issueMessage(c *domain.ScoreContribution) string {
	label, ok := metricLabels[c.Metric]
	if !ok {
		label = c.Metric
	}

	if c.Observed != nil {
		return fmt.Sprintf("%s fora da faixa saudável (observado: %.2f)", label, *c.Observed)
	}

	return fmt.Sprintf("%s fora da faixa saudável", label)
}

func positiveMessage(c *domain.ScoreContribution) string {
	label, ok := metricLabels[c.Metric]
	if !ok {
		label = c.Metric
	}

	return fmt.Sprintf("%s em nível saudável", label)
}

var metricLabels = map[string]string{
	MetricDwell:       "Dwell time",
	MetricDwellTrend:  "Tendência de dwell time",
	MetricCtr:         "CTR",
	MetricCtrTrend:    "Tendência de CTR",
	MetricFrequency:   "Frequência",
	MetricCpc:         "CPC",
	MetricCpcTrend:    "Tendência de CPC",
	MetricCpm:         "CPM",
	MetricCpmTrend:    "Tendência de CPM",
	MetricCpa:         "CPA",
	MetricPenetration: "Penetração de audiência",
	MetricSeniority:   "Mix de senioridade",
}
