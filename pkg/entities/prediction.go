package entities

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of prediction dates.
const DateLayout = time.DateOnly

type Prediction struct {
	ID          int32           `json:"id"`
	Model       int32           `json:"model"`
	Description string          `json:"description"`
	Commit      string          `json:"commit"`
	PredictDate string          `json:"predict_date"`
	Prediction  json.RawMessage `json:"prediction"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`

	// OwnerID is the user behind the author of the parent model.
	OwnerID int32 `json:"-"`
}
