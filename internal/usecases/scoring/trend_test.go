package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func TestComparePeriods(t *testing.T) {
	floors := DefaultConfig().Floors

	tests := []struct {
		name     string
		current  *domain.MetricSnapshot
		previous *domain.MetricSnapshot
		validate func(t *testing.T, c *domain.PeriodComparison)
	}{
		{
			name: "Período anterior presente - deltas calculados",
			current: BuildSnapshot(&domain.RawMetrics{
				Impressions: 1000, Clicks: 15, Spend: 30,
			}),
			previous: BuildSnapshot(&domain.RawMetrics{
				Impressions: 1000, Clicks: 10, Spend: 20,
			}),
			validate: func(t *testing.T, c *domain.PeriodComparison) {
				assert.True(t, c.HasPreviousPeriod)
				require.NotNil(t, c.CtrChange)
				assert.InDelta(t, 50.0, *c.CtrChange, 0.01)
				require.NotNil(t, c.CpcChange)
				assert.InDelta(t, 0.0, *c.CpcChange, 0.01)
				require.NotNil(t, c.SpendChange)
				assert.InDelta(t, 50.0, *c.SpendChange, 0.01)
			},
		},
		{
			name: "Sem período anterior - tudo indisponível",
			current: BuildSnapshot(&domain.RawMetrics{
				Impressions: 1000, Clicks: 15, Spend: 30,
			}),
			previous: nil,
			validate: func(t *testing.T, c *domain.PeriodComparison) {
				assert.False(t, c.HasPreviousPeriod)
				assert.Nil(t, c.CtrChange)
				assert.Nil(t, c.ImpressionsChange)
			},
		},
		{
			name: "Volume anterior abaixo do piso - deltas de razões ficam indisponíveis",
			current: BuildSnapshot(&domain.RawMetrics{
				Impressions: 1000, Clicks: 15, Spend: 30,
			}),
			previous: BuildSnapshot(&domain.RawMetrics{
				Impressions: 200, Clicks: 4, Spend: 5,
			}),
			validate: func(t *testing.T, c *domain.PeriodComparison) {
				assert.True(t, c.HasPreviousPeriod)
				// Impressões anteriores abaixo de 500 e cliques abaixo de 10.
				assert.Nil(t, c.CtrChange)
				assert.Nil(t, c.CpmChange)
				assert.Nil(t, c.CpcChange)
				// Contadores brutos ainda comparáveis.
				require.NotNil(t, c.ImpressionsChange)
				assert.InDelta(t, 400.0, *c.ImpressionsChange, 0.01)
			},
		},
		{
			name: "Base zero com valor corrente positivo - indisponível, não +infinito",
			current: BuildSnapshot(&domain.RawMetrics{
				Impressions: 800, Clicks: 8, Spend: 10,
			}),
			previous: BuildSnapshot(&domain.RawMetrics{
				Impressions: 0, Clicks: 0, Spend: 0,
			}),
			validate: func(t *testing.T, c *domain.PeriodComparison) {
				assert.True(t, c.HasPreviousPeriod)
				assert.Nil(t, c.ImpressionsChange)
				assert.Nil(t, c.ClicksChange)
			},
		},
		{
			name: "Zero para zero - sem mudança, delta zero explícito",
			current: BuildSnapshot(&domain.RawMetrics{
				Impressions: 0, Clicks: 0, Spend: 0,
			}),
			previous: BuildSnapshot(&domain.RawMetrics{
				Impressions: 0, Clicks: 0, Spend: 0,
			}),
			validate: func(t *testing.T, c *domain.PeriodComparison) {
				require.NotNil(t, c.ImpressionsChange)
				assert.Equal(t, 0.0, *c.ImpressionsChange)
				require.NotNil(t, c.SpendChange)
				assert.Equal(t, 0.0, *c.SpendChange)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comparison := ComparePeriods(tt.current, tt.previous, floors)
			require.NotNil(t, comparison)
			tt.validate(t, comparison)
		})
	}
}
