package domain

import (
	"time"
)

// CampaignStatus é o status de entrega reportado pela plataforma.
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "ACTIVE"
	CampaignStatusPaused CampaignStatus = "PAUSED"
)

// AdStatus é o status de entrega de um anúncio.
type AdStatus string

const (
	AdStatusActive AdStatus = "ACTIVE"
	AdStatusPaused AdStatus = "PAUSED"
)

type Campaign struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         CampaignStatus `json:"status"`
	DailyBudget    *float64       `json:"daily_budget"`
	LifetimeBudget *float64       `json:"lifetime_budget"`
}

// CampaignSnapshotEntry é um snapshot de métricas de campanha por janela de
// período, armazenado no banco pela sincronização.
type CampaignSnapshotEntry struct {
	ID           int64          `json:"id"`
	AccountID    string         `json:"account_id"`
	CampaignID   string         `json:"campaign_id"`
	CampaignName string         `json:"campaign_name"`
	Status       CampaignStatus `json:"status"`
	DailyBudget  *float64       `json:"daily_budget"`
	PeriodStart  time.Time      `json:"period_start"`
	PeriodEnd    time.Time      `json:"period_end"`
	Metrics      *RawMetrics    `json:"metrics"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AdSnapshotEntry é um snapshot de métricas de anúncio por janela de período.
// StartedAt é a data de criação/início do anúncio na plataforma, usada para o
// cálculo de idade.
type AdSnapshotEntry struct {
	ID          int64       `json:"id"`
	AccountID   string      `json:"account_id"`
	CampaignID  string      `json:"campaign_id"`
	AdID        string      `json:"ad_id"`
	AdName      string      `json:"ad_name"`
	Status      AdStatus    `json:"status"`
	StartedAt   time.Time   `json:"started_at"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	Metrics     *RawMetrics `json:"metrics"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
