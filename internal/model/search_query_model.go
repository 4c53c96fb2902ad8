package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SearchQuery struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query         string         `gorm:"type:text;not null"`
	ResultCount   int            `gorm:"default:0"`
	AvgSimilarity float64        `gorm:"default:0"`
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}
