package scoring

import (
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// ComputeCampaignAverages agrega os snapshots correntes dos anúncios de uma
// campanha no baseline de comparação entre pares. As razões são ponderadas por
// impressões (soma de cliques / soma de impressões etc.) em vez de média
// simples das razões por anúncio, de modo que anúncios de alto volume dominam
// o baseline na proporção certa.
//
// Retorna nil quando nenhum anúncio atinge o piso de volume: nesse caso o
// diagnóstico marca todos os anúncios como not_evaluable.
func ComputeCampaignAverages(ads []*domain.MetricSnapshot, floors VolumeFloors) *domain.CampaignAverages {
	totalImpressions := 0
	for _, ad := range ads {
		if ad == nil {
			continue
		}
		totalImpressions += ad.Impressions
	}

	var (
		qualified      int
		sumImpressions int
		sumClicks      int
		sumSpend       float64

		dwellWeighted    float64
		dwellImpressions int
	)

	for _, ad := range ads {
		if ad == nil || ad.Impressions < floors.AdImpressions {
			continue
		}

		qualified++
		sumImpressions += ad.Impressions
		sumClicks += ad.Clicks
		sumSpend += ad.Spend

		if ad.DwellTimeSeconds != nil {
			dwellWeighted += *ad.DwellTimeSeconds * float64(ad.Impressions)
			dwellImpressions += ad.Impressions
		}
	}

	if qualified == 0 {
		return nil
	}

	averages := &domain.CampaignAverages{
		CampaignImpressionsTotal: totalImpressions,
		QualifiedAds:             qualified,
	}

	if sumImpressions > 0 {
		averages.CampaignCtr = float64Ptr(float64(sumClicks) / float64(sumImpressions) * 100)
		averages.CampaignCpm = float64Ptr(sumSpend / float64(sumImpressions) * 1000)
	}

	if sumClicks > 0 {
		averages.CampaignCpc = float64Ptr(sumSpend / float64(sumClicks))
	}

	if dwellImpressions > 0 {
		averages.CampaignDwell = float64Ptr(dwellWeighted / float64(dwellImpressions))
	}

	return averages
}
