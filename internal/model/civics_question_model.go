package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CivicsQuestion struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionID int             `gorm:"column:question_id;uniqueIndex;not null"`
	Question   string          `gorm:"type:text;not null"`
	Answer     string          `gorm:"type:text;not null"`
	Category   string          `gorm:"index"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (CivicsQuestion) TableName() string {
	return "civics_questions"
}
