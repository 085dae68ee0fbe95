package transfer

type TrelloCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IDBoard string `json:"idBoard"`
}

type TrelloCustomField struct {
	ID      string                    `json:"id"`
	Name    string                    `json:"name"`
	Type    string                    `json:"type"`
	Options []TrelloCustomFieldOption `json:"options"`
}

type TrelloCustomFieldOption struct {
	ID    string `json:"id"`
	Value struct {
		Text string `json:"text"`
	} `json:"value"`
}

type TrelloErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
