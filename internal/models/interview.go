package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages is an interview transcript stored as a JSONB array.
type Messages []ChatMessage

// Scan implements the sql.Scanner interface
func (m *Messages) Scan(value interface{}) error {
	if value == nil {
		*m = Messages{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	temp := Messages{}
	if err := json.Unmarshal(bytes, &temp); err != nil {
		return err
	}

	*m = temp
	return nil
}

// Value implements the driver.Valuer interface
func (m Messages) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Interview struct {
	ID             string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(255);index;not null" json:"userId"`
	QuestionNumber int       `gorm:"not null" json:"questionNumber"`
	Messages       Messages  `gorm:"type:jsonb;not null" json:"messages"`
	Feedback       *string   `gorm:"type:text" json:"feedback"`
	Completed      bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Messages == nil {
		i.Messages = Messages{}
	}
	return nil
}

// Solution is the reference answer for a question, already fenced for display.
type Solution struct {
	Solution string `json:"solution"`
}

// InterviewDetail is an interview with its question and reference solution.
type InterviewDetail struct {
	Interview       *Interview `json:"interview"`
	QuestionDetails *Question  `json:"questionDetails"`
	Solution        *Solution  `json:"solution"`
}
