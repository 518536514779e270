package model

import "time"

// User 用户（email / username 全局唯一）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"type:varchar(20);uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"type:varchar(100);not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Bio          *string   `json:"bio" gorm:"type:text"`
	ProfileImage *string   `json:"profileImage" gorm:"type:varchar(500)"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string { return "users" }
