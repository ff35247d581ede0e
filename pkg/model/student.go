package model

import "time"

type Student struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Person    `bson:",inline"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
