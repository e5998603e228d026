package domain

import (
	"time"
)

// ScoringStatus classifica o resultado da avaliação de uma campanha.
type ScoringStatus string

const (
	ScoringStatusNeedsAttention ScoringStatus = "needs_attention"
	ScoringStatusMildIssues     ScoringStatus = "mild_issues"
	ScoringStatusPerformingWell ScoringStatus = "performing_well"
	ScoringStatusPaused         ScoringStatus = "paused"
	ScoringStatusLowVolume      ScoringStatus = "low_volume"
	ScoringStatusNewCampaign    ScoringStatus = "new_campaign"
)

// ScoreContribution é um sub-item pontuado da rubrica. Invariante: 0 <= Earned <= Possible.
type ScoreContribution struct {
	Metric    string   `json:"metric"`
	Observed  *float64 `json:"observed"`
	Earned    float64  `json:"points_earned"`
	Possible  float64  `json:"points_possible"`
	Threshold string   `json:"threshold"`
	Applied   bool     `json:"applied"`
}

// CampaignScoreRecord é o resultado de uma avaliação de campanha. É imutável
// após criado: reavaliar produz um novo registro.
type CampaignScoreRecord struct {
	EvaluationID string `json:"evaluation_id"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`

	EngagementScore float64 `json:"engagement_score"`
	EngagementMax   float64 `json:"engagement_max"`
	CostScore       float64 `json:"cost_score"`
	CostMax         float64 `json:"cost_max"`
	AudienceScore   float64 `json:"audience_score"`
	AudienceMax     float64 `json:"audience_max"`
	TotalScore      float64 `json:"total_score"`

	Status       ScoringStatus `json:"scoring_status"`
	StatusReason string        `json:"status_reason,omitempty"`

	Breakdown       []*ScoreContribution `json:"score_breakdown,omitempty"`
	Issues          []string             `json:"issues"`
	PositiveSignals []string             `json:"positive_signals"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Scored informa se a campanha passou pelos portões de status e recebeu pontuação.
func (r *CampaignScoreRecord) Scored() bool {
	if r == nil {
		return false
	}

	switch r.Status {
	case ScoringStatusPaused, ScoringStatusLowVolume, ScoringStatusNewCampaign:
		return false
	}

	return true
}

// CampaignAverages são as médias ponderadas por impressões dos anúncios de uma
// campanha no período corrente, usadas como baseline de comparação entre pares.
// nil quando nenhum anúncio atinge o piso de volume.
type CampaignAverages struct {
	CampaignCtr              *float64 `json:"campaign_ctr"`
	CampaignDwell            *float64 `json:"campaign_dwell"`
	CampaignCpc              *float64 `json:"campaign_cpc"`
	CampaignCpm              *float64 `json:"campaign_cpm"`
	CampaignImpressionsTotal int      `json:"campaign_impressions_total"`
	QualifiedAds             int      `json:"qualified_ads"`
}

// Rounded devolve uma cópia com as médias arredondadas para duas casas.
func (a *CampaignAverages) Rounded() *CampaignAverages {
	if a == nil {
		return nil
	}

	out := *a
	out.CampaignCtr = roundedPtr(a.CampaignCtr)
	out.CampaignDwell = roundedPtr(a.CampaignDwell)
	out.CampaignCpc = roundedPtr(a.CampaignCpc)
	out.CampaignCpm = roundedPtr(a.CampaignCpm)
	return &out
}
