package scoring

// VolumeFloors são os pisos mínimos de volume usados nos portões de
// "dados insuficientes" em todo o motor.
type VolumeFloors struct {
	// CampaignImpressions é o piso para uma campanha ser pontuada.
	CampaignImpressions int
	// AdImpressions é o piso para um anúncio entrar no ranking de contribuição.
	AdImpressions int
	// TrendImpressions é o volume mínimo do período anterior para deltas
	// baseados em impressões serem reportados.
	TrendImpressions int
	// TrendClicks é o volume mínimo do período anterior para deltas baseados
	// em cliques (CPC) serem reportados.
	TrendClicks int
}

// Band define uma faixa de interpolação linear para sub-notas absolutas:
// valor >= Full ganha a nota cheia, valor <= Zero ganha zero.
type Band struct {
	Full float64
	Zero float64
}

// TrendThresholds define os limiares de tendência em pontos percentuais, no
// espaço de "melhora": Strong ou acima ganha a nota cheia, Weak ou abaixo zera.
type TrendThresholds struct {
	Strong float64
	Weak   float64
}

// Config reúne todos os pesos, faixas e limiares do motor. Tudo é passado
// explicitamente: nada é lido de estado global, para manter a avaliação pura
// e testável.
type Config struct {
	Floors VolumeFloors

	// MinConversionsForCpa: abaixo disso o CPA é excluído do numerador E do
	// denominador, em vez de penalizar campanhas com poucas conversões.
	MinConversionsForCpa int

	DwellBand       Band
	CtrBand         Band
	PenetrationBand Band
	SeniorityBand   Band

	CtrTrend   TrendThresholds
	DwellTrend TrendThresholds
	CpcTrend   TrendThresholds
	CpmTrend   TrendThresholds

	// CostTolerancePct e CostZeroPct comparam CPC/CPM/CPA da campanha com a
	// média da própria conta: dentro de ±tolerância ganha nota cheia, pior que
	// CostZeroPct zera, interpolação linear no meio.
	CostTolerancePct float64
	CostZeroPct      float64

	// Limiares de status por métrica do anúncio vs. média da campanha.
	AdStrongDeltaPct float64
	AdWeakCtrPct     float64
	AdWeakDwellPct   float64
	AdWeakCpcPct     float64

	// Fatias de distribuição de impressões dentro da campanha.
	OverServedSharePct  float64
	UnderServedSharePct float64

	// Máquina de estados de idade do anúncio, em dias.
	LearningMaxAgeDays int
	StableMaxAgeDays   int

	// FatigueCtrTrendPct: queda de CTR vs. o próprio período anterior a partir
	// da qual um anúncio em fatigue_risk é marcado como fatigued.
	FatigueCtrTrendPct float64
}

// Pontos fixos da rubrica de 100 pontos.
const (
	pointsDwellAbsolute = 12
	pointsDwellTrend    = 8
	pointsCtrAbsolute   = 10
	pointsCtrTrend      = 5
	pointsFrequency     = 10

	pointsCpcAbsolute = 12
	pointsCpcTrend    = 8
	pointsCpmAbsolute = 6
	pointsCpmTrend    = 4
	pointsCpa         = 5

	pointsPenetration = 10
	pointsSeniority   = 10
)

// DefaultConfig retorna a configuração de produção, alinhada às orientações
// publicadas da plataforma.
func DefaultConfig() Config {
	return Config{
		Floors: VolumeFloors{
			CampaignImpressions: 1000,
			AdImpressions:       1000,
			TrendImpressions:    500,
			TrendClicks:         10,
		},

		MinConversionsForCpa: 3,

		DwellBand:       Band{Full: 4.0, Zero: 1.5},
		CtrBand:         Band{Full: 0.6, Zero: 0.15},
		PenetrationBand: Band{Full: 60, Zero: 10},
		SeniorityBand:   Band{Full: 70, Zero: 20},

		CtrTrend:   TrendThresholds{Strong: 10, Weak: -15},
		DwellTrend: TrendThresholds{Strong: 10, Weak: -15},
		CpcTrend:   TrendThresholds{Strong: 10, Weak: -15},
		CpmTrend:   TrendThresholds{Strong: 10, Weak: -15},

		CostTolerancePct: 15,
		CostZeroPct:      30,

		AdStrongDeltaPct: 10,
		AdWeakCtrPct:     -15,
		AdWeakDwellPct:   -10,
		AdWeakCpcPct:     -15,

		OverServedSharePct:  70,
		UnderServedSharePct: 10,

		LearningMaxAgeDays: 13,
		StableMaxAgeDays:   59,

		FatigueCtrTrendPct: -10,
	}
}
