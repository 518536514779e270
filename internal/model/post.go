package model

import "time"

// Post 照片帖子，地理信息可选
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index:idx_post_user;not null"`
	ImageURL  string    `json:"imageUrl" gorm:"type:varchar(500);not null"`
	Caption   *string   `json:"caption" gorm:"type:text"`
	Location  *string   `json:"location" gorm:"type:varchar(255)"`
	PlaceID   *string   `json:"placeId" gorm:"type:varchar(255)"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Likes []Like `json:"likes" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string { return "posts" }
