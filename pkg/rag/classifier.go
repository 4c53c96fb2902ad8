package rag

import (
	"strings"
	"unicode"
)

// Classifier decides whether a query belongs to the civics domain and should
// receive retrieved context.
type Classifier interface {
	InDomain(query string) bool
}

// KeywordClassifier matches against a fixed keyword list (English and
// Vietnamese). Queries containing non-Latin characters pass unconditionally:
// the keyword list cannot cover other languages, so the model decides instead.
type KeywordClassifier struct {
	keywords []string
}

var citizenshipKeywords = []string{
	"constitution", "government", "president", "congress", "senate", "house",
	"amendment", "bill of rights", "declaration", "independence", "history",
	"citizenship", "naturalization", "civics", "america", "united states",
	"democracy", "republic", "federal", "state", "law", "rights", "freedom",
	"war", "colony", "founding", "capital", "flag", "anthem", "holiday",
	"vice president", "governor", "trump", "vance", "newsom",
	// Vietnamese
	"hiến pháp", "chính phủ", "tổng thống", "quốc hội", "thượng viện", "hạ viện",
	"tu chính", "tuyên ngôn", "độc lập", "lịch sử", "công dân", "nhập tịch",
	"dân chủ", "cộng hòa", "liên bang", "bang", "luật", "quyền", "tự do",
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: citizenshipKeywords}
}

func (c *KeywordClassifier) InDomain(query string) bool {
	lowerQuery := strings.ToLower(query)
	for _, keyword := range c.keywords {
		if strings.Contains(lowerQuery, keyword) {
			return true
		}
	}

	// Permissive for scripts the keyword list can't cover.
	for _, r := range query {
		if r > unicode.MaxASCII {
			return true
		}
	}

	return false
}
