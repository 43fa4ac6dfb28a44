package model

import "github.com/prediction-registry/registry/pkg/entities"

// Model mapped from table <models>.
type Model struct {
	ID                       int32                  `gorm:"column:id;primaryKey;autoIncrement:true"`
	Name                     string                 `gorm:"column:name;size:100;not null;uniqueIndex"`
	Description              string                 `gorm:"column:description"`
	Repository               string                 `gorm:"column:repository;size:200;not null"`
	ImplementationLanguageID int32                  `gorm:"column:implementation_language_id;not null;index"`
	ImplementationLanguage   ImplementationLanguage `gorm:"constraint:OnDelete:RESTRICT"`
	Type                     string                 `gorm:"column:type;size:100;not null"`
	AuthorID                 int32                  `gorm:"column:author_id;not null;index"`
	Author                   Author
	Created                  int64 `gorm:"column:created;autoCreateTime:milli"`
	Updated                  int64 `gorm:"column:updated;autoUpdateTime:milli"`
}

// ToEntity expects the Author.User and ImplementationLanguage associations to
// be loaded.
func (m Model) ToEntity() *entities.Model {
	return &entities.Model{
		ID:                     m.ID,
		Name:                   m.Name,
		Description:            m.Description,
		Repository:             m.Repository,
		ImplementationLanguage: m.ImplementationLanguage.Language,
		Type:                   m.Type,
		Author:                 m.Author.User.Username,
		Created:                fromMillis(m.Created),
		Updated:                fromMillis(m.Updated),
		OwnerID:                m.Author.UserID,
	}
}
