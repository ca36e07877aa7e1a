package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"forummini/internal/util"
	"forummini/pkg/domain"
	"forummini/pkg/store"
)

// CreatePost stores a post after confirming its author exists.
func (a *App) CreatePost(ctx context.Context, in CreatePostInput) (PostDTO, error) {
	if err := required("title", in.Title); err != nil {
		return PostDTO{}, err
	}
	author, err := a.store.Users.GetSingle(ctx, in.UserID)
	if err != nil {
		return PostDTO{}, reference(err)
	}
	created, err := a.store.Posts.Add(ctx, domain.Post{Title: in.Title, Body: in.Body, UserID: in.UserID})
	if err != nil {
		return PostDTO{}, err
	}
	return toPostDTO(created, author), nil
}

// UpdatePost replaces title and body. The author is kept and must still exist.
func (a *App) UpdatePost(ctx context.Context, id int, in UpdatePostInput) (PostDTO, error) {
	if err := checkID(id, in.ID); err != nil {
		return PostDTO{}, err
	}
	if err := required("title", in.Title); err != nil {
		return PostDTO{}, err
	}
	existing, err := a.store.Posts.GetSingle(ctx, id)
	if err != nil {
		return PostDTO{}, err
	}
	author, err := a.store.Users.GetSingle(ctx, existing.UserID)
	if err != nil {
		return PostDTO{}, reference(err)
	}
	existing.Title = in.Title
	existing.Body = in.Body
	if err := a.store.Posts.Update(ctx, existing); err != nil {
		return PostDTO{}, err
	}
	return toPostDTO(existing, author), nil
}

// DeletePost removes post id. Its comments are kept.
func (a *App) DeletePost(ctx context.Context, id int) error {
	return a.store.Posts.Delete(ctx, id)
}

// GetPost returns post id with its author. A post whose author no longer
// exists is reported as not found. With includeComments the post's comments
// are attached in stored order.
func (a *App) GetPost(ctx context.Context, id int, includeComments bool) (PostDTO, error) {
	var (
		post     domain.Post
		users    []domain.User
		comments []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = a.store.Posts.GetSingle(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.store.Users.GetMany(gctx)
		return err
	})
	if includeComments {
		g.Go(func() error {
			var err error
			comments, err = a.store.Comments.GetMany(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return PostDTO{}, err
	}

	byID := usersByID(users)
	author, ok := byID[post.UserID]
	if !ok {
		return PostDTO{}, domain.NotFound(domain.EntityUser, post.UserID)
	}
	dto := toPostDTO(post, author)
	if includeComments {
		postID := post.ID
		comments = store.Filter(comments, store.Equals(commentPostID, &postID))
		attached := commentDTOs(ctx, comments, byID, "")
		dto.Comments = &attached
	}
	return dto, nil
}

// ListPosts filters posts by title substring, author id and author name
// substring. Posts whose author cannot be resolved are skipped.
func (a *App) ListPosts(ctx context.Context, q PostQuery) ([]PostDTO, error) {
	var (
		posts []domain.Post
		users []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = a.store.Posts.GetMany(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.store.Users.GetMany(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts = store.Filter(posts,
		store.ContainsFold(postTitle, q.Title),
		store.Equals(postUserID, q.UserID),
	)
	byID := usersByID(users)
	byName := store.ContainsFold(userNameOf, q.UserName)
	logger := util.LoggerFromContext(ctx)
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		author, ok := byID[p.UserID]
		if !ok {
			logger.Warn("skipping post with unknown author", "post_id", p.ID, "user_id", p.UserID)
			continue
		}
		if byName != nil && !byName(author) {
			continue
		}
		out = append(out, toPostDTO(p, author))
	}
	return out, nil
}

func postTitle(p domain.Post) string { return p.Title }
func postUserID(p domain.Post) int   { return p.UserID }
