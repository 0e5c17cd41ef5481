package checkout

import "strings"

// promoCodes maps uppercase code to discount fraction. Codes are static and
// evaluated synchronously at apply time; nothing is persisted.
var promoCodes = map[string]float64{
	"SAVE10":    0.10,
	"WELCOME20": 0.20,
	"STUDENT15": 0.15,
}

// LookupPromo returns the discount fraction for a code, case-insensitively.
func LookupPromo(code string) (float64, bool) {
	fraction, ok := promoCodes[strings.ToUpper(strings.TrimSpace(code))]
	return fraction, ok
}
