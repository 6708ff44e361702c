package rest

import "github.com/VitaminP8/blogery/internal/validate"

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32,alphanumunderscore"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createPostBody struct {
	Title    string  `json:"title" validate:"required,min=1"`
	Body     string  `json:"body" validate:"required,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

type updatePostBody struct {
	Title    *string `json:"title" validate:"omitempty,min=1"`
	Body     *string `json:"body" validate:"omitempty,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

type listPostsQuery struct {
	Page      string `schema:"page"`
	Limit     string `schema:"limit"`
	Search    string `schema:"search"`
	AuthorID  string `schema:"authorId" validate:"omitempty,number"`
	SortBy    string `schema:"sortBy" validate:"omitempty,oneof=createdAt title"`
	SortOrder string `schema:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type commentBody struct {
	Body string `json:"body" validate:"required,min=1"`
}

type listCommentsQuery struct {
	Page  string `schema:"page"`
	Limit string `schema:"limit"`
}

type postParams struct {
	ID string `schema:"id" validate:"required,number"`
}

type commentParams struct {
	ID        string `schema:"id" validate:"required,number"`
	CommentID string `schema:"commentId" validate:"required,number"`
}

var (
	registerSchema = validate.Schema{Body: validate.New[registerBody]()}
	loginSchema    = validate.Schema{Body: validate.New[loginBody]()}

	listPostsSchema  = validate.Schema{Query: validate.New[listPostsQuery]()}
	postSchema       = validate.Schema{Params: validate.New[postParams]()}
	createPostSchema = validate.Schema{Body: validate.New[createPostBody]()}
	updatePostSchema = validate.Schema{Params: validate.New[postParams](), Body: validate.New[updatePostBody]()}

	listCommentsSchema  = validate.Schema{Params: validate.New[postParams](), Query: validate.New[listCommentsQuery]()}
	createCommentSchema = validate.Schema{Params: validate.New[postParams](), Body: validate.New[commentBody]()}
	updateCommentSchema = validate.Schema{Params: validate.New[commentParams](), Body: validate.New[commentBody]()}
	commentSchema       = validate.Schema{Params: validate.New[commentParams]()}
)
