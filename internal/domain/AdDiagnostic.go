package domain

// AdAgeState classifica a idade de um anúncio desde a sua criação.
type AdAgeState string

const (
	AdAgeStateLearning    AdAgeState = "learning"
	AdAgeStateStable      AdAgeState = "stable"
	AdAgeStateFatigueRisk AdAgeState = "fatigue_risk"
)

// MetricStatus é o status de uma métrica do anúncio em relação à média da campanha.
type MetricStatus string

const (
	MetricStatusStrong      MetricStatus = "strong"
	MetricStatusWeak        MetricStatus = "weak"
	MetricStatusNeutral     MetricStatus = "neutral"
	MetricStatusEfficient   MetricStatus = "efficient"
	MetricStatusInefficient MetricStatus = "inefficient"
)

// IsGood informa se o status conta como "bom" para o tier de contribuição.
func (s MetricStatus) IsGood() bool {
	return s == MetricStatusStrong || s == MetricStatusEfficient
}

// IsBad informa se o status conta como "ruim" para o tier de contribuição.
func (s MetricStatus) IsBad() bool {
	return s == MetricStatusWeak || s == MetricStatusInefficient
}

// DistributionFlag classifica a fatia de impressões do anúncio dentro da campanha.
type DistributionFlag string

const (
	DistributionOverServed  DistributionFlag = "over_served"
	DistributionUnderServed DistributionFlag = "under_served"
	DistributionNormal      DistributionFlag = "normal"
)

// FatigueFlag classifica o desgaste do anúncio.
type FatigueFlag string

const (
	FatigueFlagFatigued    FatigueFlag = "fatigued"
	FatigueFlagAgeingButOk FatigueFlag = "ageing_but_ok"
	FatigueFlagNotFatigued FatigueFlag = "not_fatigued"
)

// ConflictReason identifica um padrão anômalo entre sinais correlacionados.
// Apenas o padrão de maior prioridade é mantido.
type ConflictReason string

const (
	ConflictSeniorAudienceOrMessageDepth ConflictReason = "senior_audience_or_message_depth"
	ConflictCuriosityClicks              ConflictReason = "curiosity_clicks"
	ConflictAlgorithmOverServingWeakAd   ConflictReason = "algorithm_over_serving_weak_ad"
	ConflictTopAdOverServed              ConflictReason = "top_ad_over_served"
)

// ContributionTier classifica o valor do anúncio para o resultado da campanha.
type ContributionTier string

const (
	ContributionHigh         ContributionTier = "high_contributor"
	ContributionNeutral      ContributionTier = "neutral_contributor"
	ContributionWeak         ContributionTier = "weak_contributor"
	ContributionLearning     ContributionTier = "learning"
	ContributionNotEvaluable ContributionTier = "not_evaluable"
)

// AdRecommendation é a ação recomendada para um anúncio, derivada de forma
// determinística da combinação de classificações.
type AdRecommendation string

const (
	RecommendScaleOrDuplicate             AdRecommendation = "scale_or_duplicate"
	RecommendKeepRunning                  AdRecommendation = "keep_running"
	RecommendPauseOrOptimize              AdRecommendation = "pause_or_optimize"
	RecommendRefreshOrReplaceCreative     AdRecommendation = "refresh_or_replace_creative"
	RecommendReduceImpressionShareOrPause AdRecommendation = "reduce_impression_share_or_pause"
	RecommendCreateVariants               AdRecommendation = "create_variants"
	RecommendAllowMoreTime                AdRecommendation = "allow_more_time"
	RecommendInsufficientData             AdRecommendation = "insufficient_data"
	RecommendNoActionAdPaused             AdRecommendation = "no_action_ad_paused"
)

// AdDiagnostic é o resultado da avaliação de um anúncio contra as médias da sua
// campanha em uma avaliação. Deltas percentuais nil significam "média indisponível".
type AdDiagnostic struct {
	AdID   string `json:"ad_id"`
	AdName string `json:"ad_name"`

	AgeDays  int        `json:"age_days"`
	AgeState AdAgeState `json:"age_state"`

	CtrStatus   *MetricStatus `json:"ctr_status"`
	DwellStatus *MetricStatus `json:"dwell_status"`
	CpcStatus   *MetricStatus `json:"cpc_status"`

	CtrDelta   *float64 `json:"ctr_delta"`
	DwellDelta *float64 `json:"dwell_delta"`
	CpcDelta   *float64 `json:"cpc_delta"`

	ImpressionShare  *float64         `json:"impression_share"`
	DistributionFlag DistributionFlag `json:"distribution_flag"`

	FatigueFlag    FatigueFlag      `json:"fatigue_flag"`
	ConflictReason *ConflictReason  `json:"conflict_reason"`
	Contribution   ContributionTier `json:"contribution"`
	Recommendation AdRecommendation `json:"recommendation"`

	LowVolume       bool   `json:"low_volume"`
	LowVolumeReason string `json:"low_volume_reason,omitempty"`
}
