package models

// Verdict is the analyst's trading stance. Closed enumeration; anything else
// coming back from the model is rejected as malformed.
type Verdict string

const (
	VerdictStrongBuy  Verdict = "Strong Buy"
	VerdictBuy        Verdict = "Buy"
	VerdictNeutral    Verdict = "Neutral"
	VerdictSell       Verdict = "Sell"
	VerdictStrongSell Verdict = "Strong Sell"
)

// ValidVerdict reports whether v is one of the allowed stances.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictStrongBuy, VerdictBuy, VerdictNeutral, VerdictSell, VerdictStrongSell:
		return true
	}
	return false
}

// KeyLevels are the analyst's three free-text price levels.
type KeyLevels struct {
	Support      string `json:"support"`
	Resistance   string `json:"resistance"`
	Invalidation string `json:"invalidation"`
}

// Analysis is the structured response of the AI analyst boundary.
type Analysis struct {
	Verdict        Verdict   `json:"verdict"`
	Summary        string    `json:"summary"`
	KeyLevels      KeyLevels `json:"keyLevels"`
	RiskAssessment string    `json:"riskAssessment"`
}
