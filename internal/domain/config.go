package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerOption is one selectable option of a quiz question.
type AnswerOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is one quiz question with its options.
type Question struct {
	Text    string         `json:"text"`
	Options []AnswerOption `json:"options"`
}

// QuestionList stores an ordered question set as a JSON column.
type QuestionList []Question

// Value implements the driver.Valuer interface for database serialization.
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan QuestionList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, q)
}

// Config is the singleton per-variant configuration record: the shared access
// code gating submissions, the prompt template, and (adventurer only) the quiz
// questions used to map answer codes to labels.
type Config struct {
	ID             uint         `gorm:"primaryKey" json:"-"`
	Variant        Variant      `gorm:"type:text;not null;uniqueIndex:idx_configs_variant" json:"-"`
	Code           string       `gorm:"type:text;not null" json:"code"`
	PromptTemplate string       `gorm:"type:text;not null" json:"promptTemplate"`
	Questions      QuestionList `gorm:"type:text" json:"questions,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for Config.
func (Config) TableName() string {
	return "configs"
}
