package model

import (
	"time"

	"gorm.io/datatypes"
)

type Proposal struct {
	ID                 string                      `gorm:"column:id;type:varchar(64);primaryKey"`
	EventID            string                      `gorm:"column:event_id;type:varchar(64);not null;index;uniqueIndex:idx_proposals_event_number,priority:1"`
	Number             *int64                      `gorm:"column:number;uniqueIndex:idx_proposals_event_number,priority:2"`
	Title              string                      `gorm:"column:title;type:varchar(255);not null"`
	SearchTitle        string                      `gorm:"column:search_title;type:varchar(255);not null;default:''"`
	Abstract           string                      `gorm:"column:abstract;type:text;not null"`
	References         string                      `gorm:"column:talk_references;type:text;not null"`
	Level              string                      `gorm:"column:level;type:varchar(16);not null;default:''"`
	Languages          datatypes.JSONSlice[string] `gorm:"column:languages"`
	IsDraft            bool                        `gorm:"column:is_draft;not null;index"`
	SubmittedAt        *time.Time                  `gorm:"column:submitted_at"`
	DeliberationStatus string                      `gorm:"column:deliberation_status;type:varchar(16);not null"`
	PublicationStatus  string                      `gorm:"column:publication_status;type:varchar(16);not null"`
	ConfirmationStatus string                      `gorm:"column:confirmation_status;type:varchar(16);not null"`
	AvgRateForSort     *float64                    `gorm:"column:avg_rate_for_sort"`
	CreatedAt          time.Time                   `gorm:"column:created_at;not null;index"`
	UpdatedAt          time.Time                   `gorm:"column:updated_at;not null"`
}

func (Proposal) TableName() string {
	return "proposals"
}

type ProposalFormat struct {
	ProposalID string `gorm:"column:proposal_id;type:varchar(64);primaryKey"`
	FormatID   string `gorm:"column:format_id;type:varchar(64);primaryKey;index"`
}

func (ProposalFormat) TableName() string {
	return "proposal_formats"
}

type ProposalCategory struct {
	ProposalID string `gorm:"column:proposal_id;type:varchar(64);primaryKey"`
	CategoryID string `gorm:"column:category_id;type:varchar(64);primaryKey;index"`
}

func (ProposalCategory) TableName() string {
	return "proposal_categories"
}

type EventSpeaker struct {
	ID         string  `gorm:"column:id;type:varchar(64);primaryKey"`
	EventID    string  `gorm:"column:event_id;type:varchar(64);not null;index"`
	UserID     *string `gorm:"column:user_id;type:varchar(64);index"`
	Name       string  `gorm:"column:name;type:varchar(255);not null"`
	SearchName string  `gorm:"column:search_name;type:varchar(255);not null;default:''"`
	Company    string  `gorm:"column:company;type:varchar(255);not null;default:''"`
}

func (EventSpeaker) TableName() string {
	return "event_speakers"
}

type ProposalSpeaker struct {
	ProposalID string `gorm:"column:proposal_id;type:varchar(64);primaryKey"`
	SpeakerID  string `gorm:"column:speaker_id;type:varchar(64);primaryKey;index"`
	Position   int    `gorm:"column:position;not null"`
}

func (ProposalSpeaker) TableName() string {
	return "proposal_speakers"
}
