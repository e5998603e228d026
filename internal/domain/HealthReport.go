package domain

import (
	"time"
)

// ComparisonMode define como as janelas de período corrente/anterior são derivadas.
type ComparisonMode string

const (
	ComparisonModeRolling28 ComparisonMode = "rolling28"
	ComparisonModeFullMonth ComparisonMode = "fullMonth"
)

// ParseComparisonMode valida o modo vindo da query string. Vazio assume rolling28.
func ParseComparisonMode(raw string) (ComparisonMode, bool) {
	switch raw {
	case "", string(ComparisonModeRolling28):
		return ComparisonModeRolling28, true
	case string(ComparisonModeFullMonth):
		return ComparisonModeFullMonth, true
	}

	return "", false
}

// AlertSeverity é a severidade de um alerta do linter estrutural.
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Alert é um aviso transversal produzido pelo linter estrutural (pacing de
// orçamento, penetração, expansão de rede). O motor apenas repassa, sem recalcular.
type Alert struct {
	ID         int64         `json:"id"`
	AccountID  string        `json:"account_id"`
	CampaignID *string       `json:"campaign_id"`
	Kind       string        `json:"kind"`
	Severity   AlertSeverity `json:"severity"`
	Message    string        `json:"message"`
	CreatedAt  time.Time     `json:"created_at"`
}

// AdHealth é a visão de um anúncio no relatório: métricas brutas + diagnóstico,
// com os issues da campanha pai herdados para exibição.
type AdHealth struct {
	AdID            string           `json:"ad_id"`
	AdName          string           `json:"ad_name"`
	Status          AdStatus         `json:"status"`
	Metrics         *MetricSnapshot  `json:"metrics"`
	Changes         *PeriodComparison `json:"changes"`
	Diagnostic      *AdDiagnostic    `json:"diagnostic"`
	InheritedIssues []string         `json:"inherited_issues"`
}

// CampaignHealth é a visão de uma campanha no relatório: métricas, deltas,
// pontuação e insights de causa.
type CampaignHealth struct {
	CampaignID   string         `json:"campaign_id"`
	CampaignName string         `json:"campaign_name"`
	Status       CampaignStatus `json:"status"`
	DailyBudget  *float64       `json:"daily_budget"`

	Metrics *MetricSnapshot   `json:"metrics"`
	Changes *PeriodComparison `json:"changes"`

	Score             *CampaignScoreRecord `json:"score"`
	CausationInsights []*CausationInsight  `json:"causation_insights"`
	Averages          *CampaignAverages    `json:"averages"`

	Ads []*AdHealth `json:"ads"`
}

// SkippedEntity registra uma entidade excluída do lote com o motivo. Um registro
// malformado nunca aborta a avaliação da conta inteira.
type SkippedEntity struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// HealthReport é a resposta completa de uma avaliação de conta.
type HealthReport struct {
	AccountID   string         `json:"account_id"`
	AccountName string         `json:"account_name"`
	Mode        ComparisonMode `json:"mode"`

	Campaigns []*CampaignHealth `json:"campaigns"`
	Alerts    []*Alert          `json:"alerts"`
	Skipped   []*SkippedEntity  `json:"skipped"`

	LastSyncAt    *time.Time `json:"last_sync_at"`
	SyncFrequency string     `json:"sync_frequency,omitempty"`
	GeneratedAt   time.Time  `json:"generated_at"`
}

// SyncState é a proveniência da sincronização de snapshots de uma conta.
type SyncState struct {
	AccountID  string     `json:"account_id"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	Frequency  string     `json:"frequency"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
