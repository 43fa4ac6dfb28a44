package entities

import "time"

type Author struct {
	UserID      int32     `json:"-"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Institution *string   `json:"institution"`
	ModelsCount int64     `json:"models_count"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}
