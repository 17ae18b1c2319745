package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Article struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title       string          `gorm:"type:varchar(512);not null"`
	Summary     string          `gorm:"type:text"`
	Content     string          `gorm:"type:text"`
	Url         string          `gorm:"type:varchar(1024);uniqueIndex"`
	Source      string          `gorm:"type:varchar(255);index"`
	PublishedAt time.Time       `gorm:"index"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"`
	Metadata    datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (Article) TableName() string {
	return "articles"
}
