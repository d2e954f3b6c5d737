package model

import "time"

type Event struct {
	ID                       string     `gorm:"column:id;type:varchar(64);primaryKey"`
	Slug                     string     `gorm:"column:slug;type:varchar(128);not null;uniqueIndex"`
	TeamID                   string     `gorm:"column:team_id;type:varchar(64);not null;index"`
	Name                     string     `gorm:"column:name;type:varchar(255);not null"`
	Type                     string     `gorm:"column:type;type:varchar(16);not null"`
	CfpStart                 *time.Time `gorm:"column:cfp_start"`
	CfpEnd                   *time.Time `gorm:"column:cfp_end"`
	ReviewEnabled            bool       `gorm:"column:review_enabled;not null"`
	DisplayProposalsSpeakers bool       `gorm:"column:display_proposals_speakers;not null"`
	DisplayProposalsRatings  bool       `gorm:"column:display_proposals_ratings;not null"`
	CreatedAt                time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Event) TableName() string {
	return "events"
}

type Format struct {
	ID      string `gorm:"column:id;type:varchar(64);primaryKey"`
	EventID string `gorm:"column:event_id;type:varchar(64);not null;index"`
	Name    string `gorm:"column:name;type:varchar(255);not null"`
}

func (Format) TableName() string {
	return "event_formats"
}

type Category struct {
	ID      string `gorm:"column:id;type:varchar(64);primaryKey"`
	EventID string `gorm:"column:event_id;type:varchar(64);not null;index"`
	Name    string `gorm:"column:name;type:varchar(255);not null"`
}

func (Category) TableName() string {
	return "event_categories"
}

// EventProposalCounter holds the last number handed out for an event. Only
// the sequence allocator reads or writes it.
type EventProposalCounter struct {
	EventID            string `gorm:"column:event_id;type:varchar(64);primaryKey"`
	LastProposalNumber int64  `gorm:"column:last_proposal_number;not null"`
}

func (EventProposalCounter) TableName() string {
	return "event_proposal_counters"
}
