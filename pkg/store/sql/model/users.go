package model

import "github.com/prediction-registry/registry/pkg/entities"

// User mapped from table <users>.
type User struct {
	ID         int32  `gorm:"column:id;primaryKey;autoIncrement:true"`
	Username   string `gorm:"column:username;size:150;not null;uniqueIndex"`
	Name       string `gorm:"column:name;size:255;not null"`
	APIKeyHash string `gorm:"column:api_key_hash;size:255;not null"`
	Created    int64  `gorm:"column:created;autoCreateTime:milli"`
	Updated    int64  `gorm:"column:updated;autoUpdateTime:milli"`
}

func (u User) ToEntity() *entities.User {
	return &entities.User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}
