package metadomain

type BusinessManager struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AdAccount struct {
	BusinessManagerID   string `json:"business_id"`
	BusinessManagerName string `json:"business_name"`
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Currency            string `json:"currency"`
}

// Action é um par tipo/valor retornado pela API do Meta em campos como
// "actions" e "video_avg_time_watched_actions". Valores numéricos chegam
// como string.
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}
