package model

import "github.com/prediction-registry/registry/pkg/entities"

// ImplementationLanguage mapped from table <implementation_languages>.
type ImplementationLanguage struct {
	ID       int32  `gorm:"column:id;primaryKey;autoIncrement:true"`
	Language string `gorm:"column:language;size:100;not null;uniqueIndex"`
}

func (l ImplementationLanguage) ToEntity() entities.ImplementationLanguage {
	return entities.ImplementationLanguage{
		ID:       l.ID,
		Language: l.Language,
	}
}
