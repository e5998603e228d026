package domain

type BusinessManager struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
	Origin     string `json:"origin"`
}

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

type AdAccount struct {
	BusinessManagerID   string          `json:"business_id"`
	BusinessManagerName string          `json:"business_name"`
	ExternalID          string          `json:"external_id"`
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Nickname            *string         `json:"nickname"`
	Currency            string          `json:"currency"`
	Origin              string          `json:"origin"`
	Status              AdAccountStatus `json:"status"`
}

type AdAccountResponse struct {
	ExternalID string          `json:"external_id"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Nickname   *string         `json:"nickname"`
	Currency   string          `json:"currency"`
	Status     AdAccountStatus `json:"status"`
}

type SyncAccountsResponse struct {
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
	Error    bool   `json:"error"`
}
