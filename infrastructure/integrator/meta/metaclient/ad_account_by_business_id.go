package metaclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/domain"
)

type ResponseAdAccount struct {
	Data   []metadomain.AdAccount `json:"data"`
	Paging metadomain.Paging      `json:"paging"`
}

// GetAdAccountsByBusinessID lista as contas de anúncio de um business manager.
func (c *MetaClient) GetAdAccountsByBusinessID(businessID string) ([]metadomain.AdAccount, error) {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	baseURL := fmt.Sprintf("%s/%s/owned_ad_accounts", c.Cfg.Meta.URL, businessID)

	params := url.Values{}
	params.Add("fields", "id,name,currency")
	params.Add("limit", "100")
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := baseURL + "?" + params.Encode()

	accounts := make([]metadomain.AdAccount, 0)
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
				return c.GetAdAccountsByBusinessID(businessID)
			}
			return nil, err
		}

		var response ResponseAdAccount
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, err
		}

		accounts = append(accounts, response.Data...)
		requestURL = response.Paging.Next
	}

	return accounts, nil
}
