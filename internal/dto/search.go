package dto

type SearchRequest struct {
	Query          string   `json:"query"`
	Limit          int      `json:"limit,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	Category       string   `json:"category,omitempty"`
	ConversationID *int64   `json:"conversation_id,omitempty"`
}

type MemorySearchRequest struct {
	Query          string   `json:"query"`
	CustomerPhone  string   `json:"customer_phone"`
	Limit          int      `json:"limit,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	ConversationID *int64   `json:"conversation_id,omitempty"`
}

type EnrichRequest struct {
	Query          string `json:"query"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

type AssistantReplyRequest struct {
	Message        string `json:"message"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}
