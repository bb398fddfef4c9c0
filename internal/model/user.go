package model

import "time"

// User is the ownership anchor for properties and the subject of issued tokens.
type User struct {
	ID         uint       `json:"id" gorm:"primarykey"`
	Name       string     `json:"name" gorm:"type:varchar(255);not null"`
	Email      string     `json:"email" gorm:"type:varchar(255);unique;not null"`
	Password   string     `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Properties []Property `json:"-" gorm:"foreignKey:UserID"`
}
