package model

import "time"

type User struct {
	ID        string    `gorm:"column:id;type:varchar(64);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

type Team struct {
	ID        string    `gorm:"column:id;type:varchar(64);primaryKey"`
	Slug      string    `gorm:"column:slug;type:varchar(128);not null;uniqueIndex"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	TeamID string `gorm:"column:team_id;type:varchar(64);primaryKey"`
	UserID string `gorm:"column:user_id;type:varchar(64);primaryKey;index"`
	Role   string `gorm:"column:role;type:varchar(16);not null"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
