// Package example binds a part of the JSONPlaceholder API.
package example

//go:generate go run github.com/starius/restbind/cmd/restbind-gen .

import (
	"context"
)

type Post struct {
	UserID int64  `json:"userId"`
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body"`
}

type Comment struct {
	PostID int64  `json:"postId"`
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// ListOptions are sent as query parameters.
type ListOptions struct {
	Page  int `query:"_page,omitempty"`
	Limit int `query:"_limit,omitempty"`
}

//restbind:service url=${posts.url:https://jsonplaceholder.typicode.com}
type PostsAPI interface {
	//restbind:mapping method=GET path=/posts/{id} produces=application/json
	//restbind:param id path
	GetPost(ctx context.Context, id int64) (*Post, error)

	//restbind:mapping method=GET path=/posts produces=application/json
	//restbind:param opts query
	ListPosts(ctx context.Context, opts ListOptions) ([]Post, error)

	//restbind:mapping method=GET path=/posts produces=application/json
	//restbind:param userID query=userId
	ListUserPosts(ctx context.Context, userID int64) ([]Post, error)

	//restbind:mapping method=POST path=/posts consumes=application/json produces=application/json
	//restbind:param post body
	CreatePost(ctx context.Context, post *Post) (*Post, error)

	//restbind:mapping method=DELETE path=/posts/{id}
	//restbind:param id path
	DeletePost(ctx context.Context, id int64) error
}

//restbind:service url=${posts.url:https://jsonplaceholder.typicode.com} path=/posts/{postId}
type CommentsAPI interface {
	//restbind:mapping method=GET path=/comments produces=application/json header=X-Client=${client.name:restbind}
	//restbind:param postID path=postId
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
}
