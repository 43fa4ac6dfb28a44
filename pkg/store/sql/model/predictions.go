package model

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/prediction-registry/registry/pkg/entities"
)

// Prediction mapped from table <predictions>.
type Prediction struct {
	ID          int32          `gorm:"column:id;primaryKey;autoIncrement:true"`
	ModelID     int32          `gorm:"column:model_id;not null;index"`
	Model       Model
	Description string         `gorm:"column:description"`
	Commit      string         `gorm:"column:commit_id;size:100"`
	PredictDate string         `gorm:"column:predict_date;size:10;not null;index"`
	Prediction  datatypes.JSON `gorm:"column:prediction;not null"`
	Created     int64          `gorm:"column:created;autoCreateTime:milli"`
	Updated     int64          `gorm:"column:updated;autoUpdateTime:milli"`
}

// ToEntity expects the Model.Author association to be loaded for the owner.
func (p Prediction) ToEntity() *entities.Prediction {
	return &entities.Prediction{
		ID:          p.ID,
		Model:       p.ModelID,
		Description: p.Description,
		Commit:      p.Commit,
		PredictDate: p.PredictDate,
		Prediction:  json.RawMessage(p.Prediction),
		Created:     fromMillis(p.Created),
		Updated:     fromMillis(p.Updated),
		OwnerID:     p.Model.Author.UserID,
	}
}
