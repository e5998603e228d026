package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func TestComputeCampaignAverages(t *testing.T) {
	floors := DefaultConfig().Floors

	t.Run("Médias ponderadas por impressões, não média simples das razões", func(t *testing.T) {
		ads := []*domain.MetricSnapshot{
			BuildSnapshot(&domain.RawMetrics{
				Impressions: 3000, Clicks: 60, Spend: 30,
				DwellTimeSeconds: floatPtr(4.0),
			}),
			BuildSnapshot(&domain.RawMetrics{
				Impressions: 1000, Clicks: 10, Spend: 20,
				DwellTimeSeconds: floatPtr(2.0),
			}),
			// Abaixo do piso: fora das médias, mas conta no total de impressões.
			BuildSnapshot(&domain.RawMetrics{
				Impressions: 500, Clicks: 50, Spend: 100,
			}),
		}

		averages := ComputeCampaignAverages(ads, floors)
		require.NotNil(t, averages)

		assert.Equal(t, 2, averages.QualifiedAds)
		assert.Equal(t, 4500, averages.CampaignImpressionsTotal)

		require.NotNil(t, averages.CampaignCtr)
		assert.InDelta(t, 1.75, *averages.CampaignCtr, 0.01) // 70/4000

		require.NotNil(t, averages.CampaignCpc)
		assert.InDelta(t, 0.71, *averages.CampaignCpc, 0.01) // 50/70

		require.NotNil(t, averages.CampaignCpm)
		assert.InDelta(t, 12.5, *averages.CampaignCpm, 0.01) // 50/4000*1000

		require.NotNil(t, averages.CampaignDwell)
		assert.InDelta(t, 3.5, *averages.CampaignDwell, 0.01) // ponderado por impressões
	})

	t.Run("Nenhum anúncio qualificado - baseline nil", func(t *testing.T) {
		ads := []*domain.MetricSnapshot{
			BuildSnapshot(&domain.RawMetrics{Impressions: 300, Clicks: 3, Spend: 2}),
			BuildSnapshot(&domain.RawMetrics{Impressions: 100, Clicks: 1, Spend: 1}),
		}

		assert.Nil(t, ComputeCampaignAverages(ads, floors))
	})

	t.Run("Dwell ausente em todos os anúncios - média de dwell nil", func(t *testing.T) {
		ads := []*domain.MetricSnapshot{
			BuildSnapshot(&domain.RawMetrics{Impressions: 2000, Clicks: 20, Spend: 10}),
		}

		averages := ComputeCampaignAverages(ads, floors)
		require.NotNil(t, averages)
		assert.Nil(t, averages.CampaignDwell)
		require.NotNil(t, averages.CampaignCtr)
	})

	t.Run("Lista vazia - baseline nil", func(t *testing.T) {
		assert.Nil(t, ComputeCampaignAverages(nil, floors))
	})
}
