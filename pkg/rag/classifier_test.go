package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifierEnglish(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		query string
		want  bool
	}{
		{"What is the Constitution?", true},
		{"Who is the president?", true},
		{"Tell me about Congress", true},
		{"American history question", true},
		{"naturalization process", true},
		{"What is the weather today?", false},
		{"how do I cook pasta", false},
		{"Programming in JavaScript", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.InDomain(tt.query), "query: %s", tt.query)
	}
}

func TestKeywordClassifierVietnamese(t *testing.T) {
	c := NewKeywordClassifier()

	assert.True(t, c.InDomain("Hiến pháp là gì?"))
	assert.True(t, c.InDomain("hiến pháp là gì?"))
	assert.True(t, c.InDomain("Tổng thống hiện tại là ai?"))
	assert.True(t, c.InDomain("Về quốc hội Mỹ"))
}

func TestKeywordClassifierNonLatinPermissive(t *testing.T) {
	c := NewKeywordClassifier()

	// No keyword coverage for these scripts; the classifier under-rejects.
	assert.True(t, c.InDomain("中国人可以入籍吗"))
	assert.True(t, c.InDomain("الجنسية الأمريكية"))
}

func TestOfficialsDetector(t *testing.T) {
	d := NewOfficialsDetector()

	assert.True(t, d.IsCurrentOfficials("Who is the current president?"))
	assert.True(t, d.IsCurrentOfficials("current president of USA"))
	assert.True(t, d.IsCurrentOfficials("president now"))
	assert.True(t, d.IsCurrentOfficials("Trump"))
	assert.True(t, d.IsCurrentOfficials("Who is the vice president now?"))
	assert.True(t, d.IsCurrentOfficials("Vance"))
	assert.True(t, d.IsCurrentOfficials("Newsom"))

	assert.False(t, d.IsCurrentOfficials("What is the Constitution?"))
	assert.False(t, d.IsCurrentOfficials("History of America"))
}

func TestOfficialsSearchLimit(t *testing.T) {
	d := NewOfficialsDetector()

	assert.Equal(t, OfficialsSearchLimit, d.SearchLimit("who is the current president?"))
	assert.Equal(t, DefaultSearchLimit, d.SearchLimit("what is the supreme law of the land?"))
}
