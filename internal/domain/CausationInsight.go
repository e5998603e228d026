package domain

// CausationLayer é a área funcional à qual um problema diagnosticado é atribuído.
type CausationLayer string

const (
	CausationLayerCreative  CausationLayer = "creative"
	CausationLayerBidding   CausationLayer = "bidding"
	CausationLayerTargeting CausationLayer = "targeting"
)

// CausationSeverity ordena os insights: no máximo um primário por avaliação.
type CausationSeverity string

const (
	CausationSeverityPrimary   CausationSeverity = "primary"
	CausationSeveritySecondary CausationSeverity = "secondary"
)

// CausationInsight explica, em termos acionáveis, por que a pontuação de uma
// campanha está onde está. Uma campanha saudável tem lista vazia, não uma
// mensagem positiva sintetizada.
type CausationInsight struct {
	Layer          CausationLayer    `json:"layer"`
	Severity       CausationSeverity `json:"severity"`
	Metric         string            `json:"metric"`
	Message        string            `json:"message"`
	Recommendation string            `json:"recommendation,omitempty"`
}
