package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
)

type ResponseCampaignInsight struct {
	Data   []metadomain.CampaignInsight `json:"data"`
	Paging metadomain.Paging            `json:"paging"`
}

// GetCampaignInsights retorna uma linha de insight por campanha da conta,
// agregada sobre o período pedido.
func (c *MetaClient) GetCampaignInsights(accountExternalID string, since, until time.Time) ([]metadomain.CampaignInsight, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, accountExternalID)

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", "account_id,account_name,campaign_id,campaign_name,objective,spend,impressions,clicks,frequency,reach,actions,video_avg_time_watched_actions")
	params.Add("time_range", timeRangeParam(since, until))
	params.Add("limit", "100")
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	insights := make([]metadomain.CampaignInsight, 0)
	for requestURL != "" {
		req, err := http.NewRequest("GET", requestURL, nil)
		if err != nil {
			logrus.WithError(err).Error("Erro ao criar a requisição")
			return nil, err
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			logrus.WithError(err).Error("Erro ao fazer a requisição")
			return nil, err
		}

		body, err := c.HandleResponse(resp)
		resp.Body.Close()
		if err != nil {
			// Se o erro indica que o token foi renovado, tentar novamente
			if err.Error() == "token expirado e renovado, por favor tente novamente" {
				return c.GetCampaignInsights(accountExternalID, since, until)
			}
			return nil, err
		}

		var response ResponseCampaignInsight
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, err
		}

		insights = append(insights, response.Data...)
		requestURL = response.Paging.Next
	}

	return insights, nil
}
