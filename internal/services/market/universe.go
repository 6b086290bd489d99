package market

import "PatternPulse/internal/domain/models"

// Universe is the fixed NSE instrument set. Defined once per process; the
// snapshot generator emits entries in this order.
var Universe = []models.Instrument{
	{Symbol: "RELIANCE", Name: "Reliance Industries", Sector: "Energy"},
	{Symbol: "TCS", Name: "Tata Consultancy Svcs", Sector: "IT"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank", Sector: "Financials"},
	{Symbol: "INFY", Name: "Infosys", Sector: "IT"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank", Sector: "Financials"},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Sector: "Consumer"},
	{Symbol: "ITC", Name: "ITC Ltd", Sector: "Consumer"},
	{Symbol: "SBIN", Name: "State Bank of India", Sector: "Financials"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Sector: "Telecom"},
	{Symbol: "LICI", Name: "LIC India", Sector: "Financials"},
	{Symbol: "LT", Name: "Larsen & Toubro", Sector: "Construction"},
	{Symbol: "TATAMOTORS", Name: "Tata Motors", Sector: "Auto"},
	{Symbol: "AXISBANK", Name: "Axis Bank", Sector: "Financials"},
	{Symbol: "SUNPHARMA", Name: "Sun Pharma", Sector: "Healthcare"},
	{Symbol: "MARUTI", Name: "Maruti Suzuki", Sector: "Auto"},
	{Symbol: "ULTRACEMCO", Name: "UltraTech Cement", Sector: "Materials"},
	{Symbol: "ASIANPAINT", Name: "Asian Paints", Sector: "Materials"},
	{Symbol: "TITAN", Name: "Titan Company", Sector: "Consumer"},
	{Symbol: "BAJFINANCE", Name: "Bajaj Finance", Sector: "Financials"},
	{Symbol: "WIPRO", Name: "Wipro", Sector: "IT"},
	{Symbol: "HCLTECH", Name: "HCL Technologies", Sector: "IT"},
	{Symbol: "NESTLEIND", Name: "Nestle India", Sector: "Consumer"},
	{Symbol: "ADANIENT", Name: "Adani Enterprises", Sector: "Diversified"},
	{Symbol: "POWERGRID", Name: "Power Grid Corp", Sector: "Utilities"},
	{Symbol: "ONGC", Name: "ONGC", Sector: "Energy"},
	{Symbol: "NTPC", Name: "NTPC", Sector: "Utilities"},
	{Symbol: "GRASIM", Name: "Grasim Industries", Sector: "Materials"},
	{Symbol: "JSWSTEEL", Name: "JSW Steel", Sector: "Materials"},
	{Symbol: "TATASTEEL", Name: "Tata Steel", Sector: "Materials"},
	{Symbol: "M&M", Name: "Mahindra & Mahindra", Sector: "Auto"},
}

// Sectors returns the distinct sector labels in universe order.
func Sectors(universe []models.Instrument) []string {
	seen := make(map[string]bool, len(universe))
	out := make([]string, 0, len(universe))
	for _, ins := range universe {
		if seen[ins.Sector] {
			continue
		}
		seen[ins.Sector] = true
		out = append(out, ins.Sector)
	}
	return out
}
