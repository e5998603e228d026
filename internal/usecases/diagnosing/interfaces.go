package diagnosing

import (
	"time"

	"github.com/vfg2006/campaign-health-api/internal/domain"
)

// HealthReporter define a interface de avaliação de saúde de uma conta.
type HealthReporter interface {
	// GetHealthReport avalia todas as campanhas e anúncios da conta na janela
	// derivada do modo de comparação, com o instante de referência explícito.
	GetHealthReport(accountID string, mode domain.ComparisonMode, asOf time.Time) (*domain.HealthReport, error)
}

// SnapshotSource define a interface para obter snapshots de métricas da
// plataforma de anúncios quando o cache não cobre a janela pedida.
type SnapshotSource interface {
	// GetCampaignSnapshots obtém as métricas agregadas por campanha para a janela.
	GetCampaignSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.CampaignSnapshotEntry, error)

	// GetAdSnapshots obtém as métricas agregadas por anúncio para a janela.
	GetAdSnapshots(accountExternalID string, periodStart, periodEnd time.Time) ([]*domain.AdSnapshotEntry, error)
}
