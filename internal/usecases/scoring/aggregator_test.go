package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestBuildSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		raw      *domain.RawMetrics
		validate func(t *testing.T, snapshot *domain.MetricSnapshot)
	}{
		{
			name: "Métricas completas - calcula todas as razões derivadas",
			raw: &domain.RawMetrics{
				Impressions: 10000,
				Clicks:      60,
				Spend:       120,
				Conversions: intPtr(4),
			},
			validate: func(t *testing.T, snapshot *domain.MetricSnapshot) {
				require.NotNil(t, snapshot.Ctr)
				assert.Equal(t, 0.6, *snapshot.Ctr)
				require.NotNil(t, snapshot.Cpc)
				assert.Equal(t, 2.0, *snapshot.Cpc)
				require.NotNil(t, snapshot.Cpm)
				assert.Equal(t, 12.0, *snapshot.Cpm)
				require.NotNil(t, snapshot.Cpa)
				assert.Equal(t, 30.0, *snapshot.Cpa)
			},
		},
		{
			name: "Razão com dízima - mantém a precisão completa, sem arredondar",
			raw: &domain.RawMetrics{
				Impressions: 1200,
				Clicks:      7,
				Spend:       10.5,
			},
			validate: func(t *testing.T, snapshot *domain.MetricSnapshot) {
				require.NotNil(t, snapshot.Ctr)
				assert.InDelta(t, 7.0/1200.0*100, *snapshot.Ctr, 1e-9)
				require.NotNil(t, snapshot.Cpm)
				assert.InDelta(t, 10.5/1200.0*1000, *snapshot.Cpm, 1e-9)
			},
		},
		{
			name: "Impressões zeradas - CTR e CPM ficam nil, nunca NaN",
			raw: &domain.RawMetrics{
				Impressions: 0,
				Clicks:      0,
				Spend:       10,
			},
			validate: func(t *testing.T, snapshot *domain.MetricSnapshot) {
				assert.Nil(t, snapshot.Ctr)
				assert.Nil(t, snapshot.Cpm)
				assert.Nil(t, snapshot.Cpc)
				assert.Nil(t, snapshot.Cpa)
			},
		},
		{
			name: "Conversões ausentes - CPA fica nil",
			raw: &domain.RawMetrics{
				Impressions: 500,
				Clicks:      10,
				Spend:       25,
			},
			validate: func(t *testing.T, snapshot *domain.MetricSnapshot) {
				assert.Nil(t, snapshot.Cpa)
				require.NotNil(t, snapshot.Cpc)
				assert.Equal(t, 2.5, *snapshot.Cpc)
			},
		},
		{
			name: "Conversões zeradas - CPA fica nil, não infinito",
			raw: &domain.RawMetrics{
				Impressions: 500,
				Clicks:      10,
				Spend:       25,
				Conversions: intPtr(0),
			},
			validate: func(t *testing.T, snapshot *domain.MetricSnapshot) {
				assert.Nil(t, snapshot.Cpa)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := BuildSnapshot(tt.raw)
			require.NotNil(t, snapshot)
			tt.validate(t, snapshot)
		})
	}
}

func TestBuildSnapshotNil(t *testing.T) {
	assert.Nil(t, BuildSnapshot(nil))
}

func TestRawMetricsValidate(t *testing.T) {
	valid := &domain.RawMetrics{Impressions: 100, Clicks: 5, Spend: 10}
	assert.NoError(t, valid.Validate())

	negative := &domain.RawMetrics{Impressions: -1}
	assert.Error(t, negative.Validate())

	negativeConversions := &domain.RawMetrics{Impressions: 100, Conversions: intPtr(-2)}
	assert.Error(t, negativeConversions.Validate())
}
