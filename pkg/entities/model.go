package entities

import "time"

type Model struct {
	ID                     int32     `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Repository             string    `json:"repository"`
	ImplementationLanguage string    `json:"implementation_language"`
	Type                   string    `json:"type"`
	Author                 string    `json:"author"`
	Created                time.Time `json:"created"`
	Updated                time.Time `json:"updated"`

	// OwnerID is the user behind the owning author.
	OwnerID int32 `json:"-"`
}
