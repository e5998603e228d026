package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
)

type ResponseAd struct {
	Data   []metadomain.Ad   `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

// GetAds lista os anúncios de uma conta com a campanha pai e a data de criação.
func (c *MetaClient) GetAds(accountExternalID string) ([]metadomain.Ad, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	baseURL := fmt.Sprintf("%s/act_%s/ads", c.Cfg.Meta.URL, accountExternalID)

	params := url.Values{}
	params.Add("fields", "id,name,status,created_time,campaign{id}")
	params.Add("limit", "100")
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	ads := make([]metadomain.Ad, 0)
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
				return c.GetAds(accountExternalID)
			}
			return nil, err
		}

		var response ResponseAd
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, err
		}

		ads = append(ads, response.Data...)
		requestURL = response.Paging.Next
	}

	return ads, nil
}
