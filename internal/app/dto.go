package app

import "forummini/pkg/domain"

// UserDTO is the public view of a user. The password never leaves the app.
type UserDTO struct {
	ID       int    `json:"id"`
	UserName string `json:"userName"`
}

// PostDTO is a post with its author's name resolved. Comments is nil unless
// they were requested, and then encodes as a list even when empty.
type PostDTO struct {
	ID       int           `json:"id"`
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	UserID   int           `json:"userId"`
	UserName string        `json:"userName"`
	Comments *[]CommentDTO `json:"comments,omitempty"`
}

// CommentDTO is a comment with its author's name resolved.
type CommentDTO struct {
	ID       int    `json:"id"`
	Body     string `json:"body"`
	UserID   int    `json:"userId"`
	UserName string `json:"userName"`
	PostID   int    `json:"postId"`
}

type UpdateUserInput struct {
	ID       int
	UserName string
	Password string
}

type CreatePostInput struct {
	Title  string
	Body   string
	UserID int
}

type UpdatePostInput struct {
	ID    int
	Title string
	Body  string
}

type CreateCommentInput struct {
	Body   string
	UserID int
	PostID int
}

type UpdateCommentInput struct {
	ID   int
	Body string
}

// PostQuery filters post listings. Zero values are ignored.
type PostQuery struct {
	Title    string
	UserID   *int
	UserName string
}

// CommentQuery filters comment listings. Zero values are ignored.
type CommentQuery struct {
	UserID   *int
	PostID   *int
	UserName string
}

func toUserDTO(u domain.User) UserDTO {
	return UserDTO{ID: u.ID, UserName: u.Username}
}

func toPostDTO(p domain.Post, author domain.User) PostDTO {
	return PostDTO{ID: p.ID, Title: p.Title, Body: p.Body, UserID: p.UserID, UserName: author.Username}
}

func toCommentDTO(c domain.Comment, author domain.User) CommentDTO {
	return CommentDTO{ID: c.ID, Body: c.Body, UserID: c.UserID, UserName: author.Username, PostID: c.PostID}
}
