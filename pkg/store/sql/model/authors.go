package model

import "github.com/prediction-registry/registry/pkg/entities"

// Author mapped from table <authors>.
type Author struct {
	ID          int32   `gorm:"column:id;primaryKey;autoIncrement:true"`
	UserID      int32   `gorm:"column:user_id;not null;uniqueIndex"`
	User        User    `gorm:"constraint:OnDelete:CASCADE"`
	Institution *string `gorm:"column:institution;size:100"`
	Created     int64   `gorm:"column:created;autoCreateTime:milli"`
	Updated     int64   `gorm:"column:updated;autoUpdateTime:milli"`

	// Only filled by queries selecting the aggregate explicitly.
	ModelsCount int64 `gorm:"column:models_count;->;-:migration"`
}

// ToEntity expects the User association to be loaded.
func (a Author) ToEntity() *entities.Author {
	return &entities.Author{
		UserID:      a.UserID,
		Username:    a.User.Username,
		Name:        a.User.Name,
		Institution: a.Institution,
		ModelsCount: a.ModelsCount,
		Created:     fromMillis(a.Created),
		Updated:     fromMillis(a.Updated),
	}
}
