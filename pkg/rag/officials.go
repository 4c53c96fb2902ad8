package rag

import "strings"

// Retrieval limits: current-officials queries fetch more context because the
// corpus carries several near-identical "who is X" questions.
const (
	DefaultSearchLimit   = 3
	OfficialsSearchLimit = 5
)

// OfficialsDetector flags queries about current office holders.
type OfficialsDetector struct {
	keywords []string
}

var currentOfficialKeywords = []string{
	"current president", "who is president", "president now", "trump",
	"current vice president", "who is vice president", "vice president now", "vance",
	"current governor", "who is governor", "governor now", "newsom",
	"who is the president", "who is the vice president", "who is the governor",
}

func NewOfficialsDetector() *OfficialsDetector {
	return &OfficialsDetector{keywords: currentOfficialKeywords}
}

func (d *OfficialsDetector) IsCurrentOfficials(query string) bool {
	lowerQuery := strings.ToLower(query)
	for _, keyword := range d.keywords {
		if strings.Contains(lowerQuery, keyword) {
			return true
		}
	}
	return false
}

// SearchLimit returns the retrieval depth for a query.
func (d *OfficialsDetector) SearchLimit(query string) int {
	if d.IsCurrentOfficials(query) {
		return OfficialsSearchLimit
	}
	return DefaultSearchLimit
}
