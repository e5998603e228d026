package metaclient

import (
	"net/http"
	"time"

	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/campaign-health-api/internal/config"
)

type Client interface {
	GetCampaigns(accountExternalID string) ([]metadomain.Campaign, error)
	GetCampaignInsights(accountExternalID string, since, until time.Time) ([]metadomain.CampaignInsight, error)
	GetAds(accountExternalID string) ([]metadomain.Ad, error)
	GetAdInsights(accountExternalID string, since, until time.Time) ([]metadomain.AdInsight, error)
	GetAdAccountsByBusinessID(businessID string) ([]metadomain.AdAccount, error)
	RefreshToken() error
	EnsureValidToken() error
	HandleResponse(resp *http.Response) ([]byte, error)
}

type MetaClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	client := &MetaClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
	}
	return client
}

// RefreshToken obtém um novo token de longa duração
func (c *MetaClient) RefreshToken() error {
	return c.TokenManager.RefreshToken()
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (c *MetaClient) EnsureValidToken() error {
	return c.TokenManager.EnsureValidToken()
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (c *MetaClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}

// timeRangeParam monta o filtro de período no formato esperado pela API.
func timeRangeParam(since, until time.Time) string {
	return `{"since":"` + since.Format(time.DateOnly) + `","until":"` + until.Format(time.DateOnly) + `"}`
}
