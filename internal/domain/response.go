package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray stores a string slice as a JSON column.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Response records one submission: the identity fields as submitted, the raw
// quiz answers (adventurer only), the stored image URLs and the rendered
// prompt sent to the generation service. The code is kept verbatim for audit
// and never re-validated on read.
type Response struct {
	ID                string      `gorm:"type:text;primaryKey" json:"id"`
	Variant           Variant     `gorm:"type:text;not null;index:idx_responses_variant" json:"-"`
	Name              string      `gorm:"type:text;not null" json:"name"`
	Gender            string      `gorm:"type:text;not null" json:"gender"`
	Code              string      `gorm:"type:text;not null" json:"code"`
	Answers           StringArray `gorm:"type:text" json:"answers,omitempty"`
	OriginalImageURL  string      `gorm:"type:text;not null" json:"originalImageUrl"`
	GeneratedImageURL string      `gorm:"type:text" json:"generatedImageUrl,omitempty"`
	Prompt            string      `gorm:"type:text" json:"prompt,omitempty"`
	Width             int         `json:"width,omitempty"`
	Height            int         `json:"height,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// TableName returns the database table name for Response.
func (Response) TableName() string {
	return "responses"
}
