package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"size:20;not null"`
	Username  string         `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"size:60;uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"size:200;not null"`
	Bio       string         `json:"bio" gorm:"size:200;default:''"`
	Image     string         `json:"image" gorm:"size:100;default:''"`
	Role      UserRole       `json:"role" gorm:"default:'USER'"`
	Following []User         `json:"-" gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FollowingID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserFollow is the join row behind User.Following. Declared explicitly so
// the composite primary key rejects duplicate follow edges at the store.
type UserFollow struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
