package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionNumber int       `gorm:"uniqueIndex;not null" json:"questionNumber"`
	URLSolution    string    `gorm:"type:text;not null" json:"urlSolution"`
	SolutionRoute  string    `gorm:"type:text;not null" json:"solutionRoute"`
	URLQuestion    string    `gorm:"type:text;not null" json:"urlQuestion"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = now
	}
	return nil
}

// QuestionPatch carries the fields a PATCH may change; nil means untouched.
type QuestionPatch struct {
	QuestionNumber *int    `json:"questionNumber"`
	URLSolution    *string `json:"urlSolution"`
	SolutionRoute  *string `json:"solutionRoute"`
	URLQuestion    *string `json:"urlQuestion"`
	Prompt         *string `json:"prompt"`
}

// Updates turns the patch into a column map. It is empty when nothing was set.
func (p QuestionPatch) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if p.QuestionNumber != nil {
		updates["question_number"] = *p.QuestionNumber
	}
	if p.URLSolution != nil {
		updates["url_solution"] = *p.URLSolution
	}
	if p.SolutionRoute != nil {
		updates["solution_route"] = *p.SolutionRoute
	}
	if p.URLQuestion != nil {
		updates["url_question"] = *p.URLQuestion
	}
	if p.Prompt != nil {
		updates["prompt"] = *p.Prompt
	}
	return updates
}
