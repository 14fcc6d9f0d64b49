package warranty

// dealerCodes maps raw dealer locations from the ledger to the short division
// codes the dashboard reports on. Locations not listed here pass through
// unchanged so new dealers still show up, keyed by their raw name.
var dealerCodes = map[string]string{
	"AMRAVATI":                "AMT",
	"CHAUFULA_SZZ":            "CHA",
	"CHIKHALI":                "CHI",
	"KOLHAPUR_WS":             "KOL",
	"NAGPUR_KAMPTHEE ROAD":    "HO",
	"NAGPUR_WARDHAMAN NGR":    "CITY",
	"SHIKRAPUR_SZS":           "SHI",
	"WAGHOLI":                 "WAG",
	"YAVATMAL":                "YAT",
	"NAGPUR_WARDHAMAN NGR_CQ": "CQ",
}

// NormalizeDealer returns the division code for a raw dealer location.
// Total: unmapped input comes back unchanged, never an error.
func NormalizeDealer(raw string) string {
	if code, ok := dealerCodes[raw]; ok {
		return code
	}
	return raw
}

// DealerLocation is the reverse lookup used when filtering ledger rows for a
// division's detail export. Codes of unmapped dealers come back unchanged,
// mirroring NormalizeDealer's passthrough.
func DealerLocation(code string) string {
	for location, c := range dealerCodes {
		if c == code {
			return location
		}
	}
	return code
}
