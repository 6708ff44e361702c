package models

import "github.com/jinzhu/gorm"

type User struct {
	gorm.Model
	Username string    `gorm:"unique;not null"`
	Email    string    `gorm:"unique;not null"`
	Password string    `gorm:"not null"`
	Posts    []Post    `gorm:"foreignkey:AuthorID"`
	Comments []Comment `gorm:"foreignkey:AuthorID"`
}

type Post struct {
	gorm.Model
	Title    string `gorm:"not null"`
	Body     string `gorm:"type:text;not null"`
	ImageURL *string
	AuthorID uint      `gorm:"index;not null"`
	Author   User      `gorm:"foreignkey:AuthorID"`
	Comments []Comment `gorm:"foreignkey:PostID"`
}

type Comment struct {
	gorm.Model
	Body     string `gorm:"type:text;not null"`
	PostID   uint   `gorm:"index;not null"`
	AuthorID uint   `gorm:"index;not null"`
	Author   User   `gorm:"foreignkey:AuthorID"`
}

// PostLike - связь "пользователь лайкнул пост", пара (PostID, UserID) уникальна
type PostLike struct {
	PostID uint `gorm:"primary_key;auto_increment:false"`
	UserID uint `gorm:"primary_key;auto_increment:false"`
}
