package analyzer

import "strings"

// RiskKeywords are the fixed terms that flag a narrative row. List order
// is preserved in match output.
var RiskKeywords = []string{
	"High TRQ",
	"Torque",
	"Stuck",
	"String vibration",
	"Mud loss",
	"Mud gain",
	"Drag",
	"String installation",
	"String running",
	"Washout",
	"Hole problems",
	"Differential sticking",
	"Pack-off",
	"Kick",
	"Well control",
}

// MatchKeywords returns every keyword contained in text as a
// case-insensitive substring, in keyword-list order.
func MatchKeywords(text string, keywords []string) []string {
	var matched []string
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
