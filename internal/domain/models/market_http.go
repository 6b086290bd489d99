package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type SnapshotRequest struct {
	Sector        string `query:"sector" json:"sector" default:"All"`
	Trend         string `query:"trend" json:"trend" default:"All" validate:"oneof=All Bullish Bearish Neutral"`
	MinConfidence int    `query:"min_confidence" json:"min_confidence" validate:"gte=0,lte=100"`
	Search        string `query:"search" json:"search"`
	Sort          string `query:"sort" json:"sort" default:"confidence" validate:"oneof=confidence universe"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type AnalysisRequest struct {
	Symbol string `json:"symbol" validate:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	// Identifier is an email address or a phone number.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required,len=4"`
}

type BroadcastRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,dive,required"`
}
