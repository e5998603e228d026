package scoring

import (
	"fmt"
	"sort"

	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// AnalyzeCausation explica por que a pontuação de uma campanha está onde está,
// em termos que o anunciante consegue acionar. As contribuições zeradas são
// ranqueadas por pontos possíveis (maior primeiro); a primeira vira o insight
// primário e até duas outras contribuições zeradas ou parciais viram
// secundários. Campanha totalmente saudável produz lista vazia, não uma
// mensagem positiva sintetizada.
func AnalyzeCausation(record *domain.CampaignScoreRecord, ads []*domain.AdDiagnostic, cfg Config) []*domain.CausationInsight {
	if record == nil || !record.Scored() {
		return nil
	}

	zeroed := make([]*domain.ScoreContribution, 0)
	partial := make([]*domain.ScoreContribution, 0)

	for _, c := range record.Breakdown {
		if !c.Applied {
			continue
		}

		switch {
		case c.Earned == 0:
			zeroed = append(zeroed, c)
		case c.Earned < c.Possible/2:
			partial = append(partial, c)
		}
	}

	// Sem contribuição zerada não há insight a produzir.
	if len(zeroed) == 0 {
		return nil
	}

	byRelevance := func(list []*domain.ScoreContribution) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Possible != list[j].Possible {
				return list[i].Possible > list[j].Possible
			}
			return list[i].Metric < list[j].Metric
		})
	}
	byRelevance(zeroed)
	byRelevance(partial)

	insights := make([]*domain.CausationInsight, 0, 3)
	insights = append(insights, buildInsight(zeroed[0], domain.CausationSeverityPrimary, ads, cfg))

	secondaries := append(zeroed[1:], partial...)
	for i := 0; i < len(secondaries) && len(insights) < 3; i++ {
		insights = append(insights, buildInsight(secondaries[i], domain.CausationSeveritySecondary, ads, cfg))
	}

	return insights
}

func buildInsight(c *domain.ScoreContribution, severity domain.CausationSeverity, ads []*domain.AdDiagnostic, cfg Config) *domain.CausationInsight {
	insight := &domain.CausationInsight{
		Layer:          layerForMetric(c.Metric),
		Severity:       severity,
		Metric:         c.Metric,
		Message:        causationMessage(c),
		Recommendation: causationRecommendations[c.Metric],
	}

	// Na camada criativa, o conjunto de diagnósticos dos anúncios refina a
	// recomendação: fadiga generalizada pede troca de criativo, não ajuste
	// de mensagem.
	if insight.Layer == domain.CausationLayerCreative && countFatigued(ads) > 0 {
		insight.Recommendation = "Substitua os criativos fatigados antes de ajustar mensagem ou segmentação"
	}

	return insight
}

func countFatigued(ads []*domain.AdDiagnostic) int {
	fatigued := 0
	for _, ad := range ads {
		if ad != nil && ad.FatigueFlag == domain.FatigueFlagFatigued {
			fatigued++
		}
	}

	return fatigued
}

// layerForMetric infere a área funcional a partir da família da métrica:
// engajamento aponta para o criativo, custo para o lance, audiência para a
// segmentação.
func layerForMetric(metric string) domain.CausationLayer {
	switch metric {
	case MetricCtr, MetricCtrTrend, MetricDwell, MetricDwellTrend, MetricFrequency:
		return domain.CausationLayerCreative
	case MetricCpc, MetricCpcTrend, MetricCpm, MetricCpmTrend, MetricCpa:
		return domain.CausationLayerBidding
	case MetricPenetration, MetricSeniority:
		return domain.CausationLayerTargeting
	}

	return domain.CausationLayerCreative
}

func causationMessage(c *domain.ScoreContribution) string {
	label, ok := metricLabels[c.Metric]
	if !ok {
		label = c.Metric
	}

	if c.Earned == 0 {
		return fmt.Sprintf("%s zerou na avaliação (%.0f pontos perdidos)", label, c.Possible)
	}

	return fmt.Sprintf("%s pontuou abaixo da metade (%.1f de %.0f pontos)", label, c.Earned, c.Possible)
}

// Recomendações fixas por métrica, no vocabulário do painel.
var causationRecommendations = map[string]string{
	MetricDwell:       "Revise o gancho dos primeiros segundos do criativo para reter a atenção",
	MetricDwellTrend:  "Compare os criativos recentes com os do período anterior e reverta as mudanças que derrubaram a retenção",
	MetricCtr:         "Teste novas chamadas e miniaturas: o anúncio não está gerando cliques no nível esperado",
	MetricCtrTrend:    "Renove os criativos: a queda de CTR sugere desgaste da peça atual",
	MetricFrequency:   "Ajuste o cap de frequência ou amplie a audiência para reduzir a repetição",
	MetricCpc:         "Revise a estratégia de lance: o custo por clique está acima da média da conta",
	MetricCpcTrend:    "Investigue o leilão: o CPC subiu de forma relevante contra o período anterior",
	MetricCpm:         "Reavalie os posicionamentos: o CPM está acima da média da conta",
	MetricCpmTrend:    "Verifique concorrência e sazonalidade no leilão: o CPM vem subindo",
	MetricCpa:         "Otimize a página de destino ou o evento de conversão: o CPA está acima da média da conta",
	MetricPenetration: "Amplie ou realinhe os públicos: a campanha alcança pouco da audiência alvo",
	MetricSeniority:   "Refine os filtros de senioridade: as impressões estão fora do perfil desejado",
}
