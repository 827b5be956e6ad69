package model

import "time"

type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Username     string  `gorm:"type:varchar(80);uniqueIndex;not null"`
	Email        *string `gorm:"type:varchar(120);uniqueIndex"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	IsAdmin      bool    `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

func (u User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
