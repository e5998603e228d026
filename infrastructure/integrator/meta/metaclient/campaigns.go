package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
)

type ResponseAdCampaign struct {
	Data   []metadomain.Campaign `json:"data"`
	Paging metadomain.Paging     `json:"paging"`
}

// GetCampaigns lista as campanhas de uma conta, seguindo a paginação até o fim.
func (c *MetaClient) GetCampaigns(accountExternalID string) ([]metadomain.Campaign, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	baseURL := fmt.Sprintf("%s/act_%s/campaigns", c.Cfg.Meta.URL, accountExternalID)

	params := url.Values{}
	params.Add("fields", "id,name,status,daily_budget")
	params.Add("limit", "100")
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	campaigns := make([]metadomain.Campaign, 0)
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
				return c.GetCampaigns(accountExternalID)
			}
			return nil, err
		}

		var response ResponseAdCampaign
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, err
		}

		campaigns = append(campaigns, response.Data...)
		requestURL = response.Paging.Next
	}

	return campaigns, nil
}
