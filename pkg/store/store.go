package store

import (
	"context"

	"forummini/pkg/domain"
)

// Document names, one per entity type.
const (
	UsersDocument    = "users"
	PostsDocument    = "posts"
	CommentsDocument = "comments"
)

// Store bundles the three repositories sharing one backend. Each repository
// owns its own document; no document is shared between entity types.
type Store struct {
	Users    *Repository[domain.User]
	Posts    *Repository[domain.Post]
	Comments *Repository[domain.Comment]
}

type Options struct {
	Observer Observer
}

type Option func(*Options)

// WithObserver reports document load/save timings to o.
func WithObserver(o Observer) Option {
	return func(opts *Options) {
		opts.Observer = o
	}
}

// New builds the repositories and creates any missing document as an empty
// collection. Calling it against existing documents changes nothing.
func New(ctx context.Context, backend Backend, options ...Option) (*Store, error) {
	opts := Options{}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	users := NewCollection[domain.User](backend, UsersDocument, opts.Observer)
	posts := NewCollection[domain.Post](backend, PostsDocument, opts.Observer)
	comments := NewCollection[domain.Comment](backend, CommentsDocument, opts.Observer)
	for _, initDoc := range []func(context.Context) error{users.Init, posts.Init, comments.Init} {
		if err := initDoc(ctx); err != nil {
			return nil, err
		}
	}
	return &Store{
		Users:    NewRepository(domain.EntityUser, users),
		Posts:    NewRepository(domain.EntityPost, posts),
		Comments: NewRepository(domain.EntityComment, comments),
	}, nil
}
