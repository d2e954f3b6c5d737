package model

import "time"

type Review struct {
	ID         string    `gorm:"column:id;type:varchar(64);primaryKey"`
	ProposalID string    `gorm:"column:proposal_id;type:varchar(64);not null;uniqueIndex:idx_reviews_user_proposal,priority:2;index"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_reviews_user_proposal,priority:1"`
	Feeling    string    `gorm:"column:feeling;type:varchar(16);not null"`
	Note       *int      `gorm:"column:note"`
	Comment    *string   `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (Review) TableName() string {
	return "reviews"
}
