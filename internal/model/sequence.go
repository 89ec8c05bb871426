package model

import "time"

// LetterSequence 每个月一行的信件流水号
type LetterSequence struct {
	BaseModel
	Period    string    `json:"period" gorm:"type:varchar(16);not null;uniqueIndex"`
	Value     int       `json:"value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *LetterSequence) TableComment() string {
	return "信件流水号表"
}

func init() {
	models = append(models, &LetterSequence{})
}
