package metadomain

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

type Campaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	DailyBudget string `json:"daily_budget"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

// InsightMetrics são os contadores comuns às linhas de insight de campanha e
// de anúncio. Todos os números chegam como string da API do Meta.
type InsightMetrics struct {
	Clicks              string   `json:"clicks"`
	Impressions         string   `json:"impressions"`
	Spend               string   `json:"spend"`
	Reach               string   `json:"reach"`
	Frequency           string   `json:"frequency"`
	Objective           string   `json:"objective"`
	Actions             []Action `json:"actions"`
	VideoAvgTimeWatched []Action `json:"video_avg_time_watched_actions"`
	DateStart           string   `json:"date_start"`
	DateStop            string   `json:"date_stop"`
}

type CampaignInsight struct {
	InsightMetrics

	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
}

type AdInsight struct {
	InsightMetrics

	AccountID  string `json:"account_id"`
	CampaignID string `json:"campaign_id"`
	AdID       string `json:"ad_id"`
	AdName     string `json:"ad_name"`
}

// Ad é a entidade de anúncio listada fora dos insights; CreatedTime alimenta
// o cálculo de idade do criativo.
type Ad struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CreatedTime string `json:"created_time"`
	Campaign    struct {
		ID string `json:"id"`
	} `json:"campaign"`
}

// Conversions resolve o total de conversões da linha a partir do objetivo da
// campanha. nil significa que a API não reportou a ação mapeada, o que é
// diferente de zero conversões.
func (m *InsightMetrics) Conversions() *int {
	actionType, ok := MetaObjectiveToActionType[m.Objective]
	if !ok {
		logrus.WithField("objective", m.Objective).Debug("Objetivo sem mapeamento de ação")
		return nil
	}

	for i := range m.Actions {
		action := m.Actions[i]
		if action.ActionType != actionType {
			continue
		}

		actionValue, err := strconv.Atoi(action.Value)
		if err != nil {
			logrus.WithError(err).WithField("action_value", action.Value).
				Warn("Erro ao converter valor da ação")
			return nil
		}

		return &actionValue
	}

	return nil
}

// DwellSeconds extrai o tempo médio assistido de vídeo, quando reportado.
func (m *InsightMetrics) DwellSeconds() *float64 {
	for i := range m.VideoAvgTimeWatched {
		action := m.VideoAvgTimeWatched[i]
		if action.ActionType != "video_view" {
			continue
		}

		seconds, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			logrus.WithError(err).WithField("action_value", action.Value).
				Warn("Erro ao converter tempo médio assistido")
			return nil
		}

		return &seconds
	}

	return nil
}
