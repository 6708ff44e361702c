package models

import "time"

// Представления сущностей, которые отдаются наружу (без пароля и служебных полей gorm)

type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type PostView struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	ImageURL  *string     `json:"imageUrl"`
	AuthorID  uint        `json:"authorId"`
	Author    *AuthorView `json:"author,omitempty"`
	Likes     int64       `json:"likes"`
	Comments  int64       `json:"comments"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type CommentView struct {
	ID        uint        `json:"id"`
	Body      string      `json:"body"`
	PostID    uint        `json:"postId"`
	AuthorID  uint        `json:"authorId"`
	Author    *AuthorView `json:"author,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) AuthorView() *AuthorView {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &AuthorView{ID: u.ID, Username: u.Username}
}

// View собирает представление поста; счетчики считаются хранилищем отдельно
func (p *Post) View(likes, comments int64) *PostView {
	return &PostView{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		ImageURL:  p.ImageURL,
		AuthorID:  p.AuthorID,
		Author:    p.Author.AuthorView(),
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c *Comment) View() *CommentView {
	return &CommentView{
		ID:        c.ID,
		Body:      c.Body,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Author:    c.Author.AuthorView(),
		CreatedAt: c.CreatedAt,
	}
}
