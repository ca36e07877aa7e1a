package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"forummini/internal/util"
	"forummini/pkg/domain"
	"forummini/pkg/store"
)

// CreateComment stores a comment after confirming its author and post exist.
func (a *App) CreateComment(ctx context.Context, in CreateCommentInput) (CommentDTO, error) {
	if err := required("body", in.Body); err != nil {
		return CommentDTO{}, err
	}
	author, err := a.store.Users.GetSingle(ctx, in.UserID)
	if err != nil {
		return CommentDTO{}, reference(err)
	}
	if _, err := a.store.Posts.GetSingle(ctx, in.PostID); err != nil {
		return CommentDTO{}, reference(err)
	}
	created, err := a.store.Comments.Add(ctx, domain.Comment{Body: in.Body, UserID: in.UserID, PostID: in.PostID})
	if err != nil {
		return CommentDTO{}, err
	}
	return toCommentDTO(created, author), nil
}

// UpdateComment replaces the body. Author and post are kept; the author
// must still exist.
func (a *App) UpdateComment(ctx context.Context, id int, in UpdateCommentInput) (CommentDTO, error) {
	if err := checkID(id, in.ID); err != nil {
		return CommentDTO{}, err
	}
	if err := required("body", in.Body); err != nil {
		return CommentDTO{}, err
	}
	existing, err := a.store.Comments.GetSingle(ctx, id)
	if err != nil {
		return CommentDTO{}, err
	}
	author, err := a.store.Users.GetSingle(ctx, existing.UserID)
	if err != nil {
		return CommentDTO{}, reference(err)
	}
	existing.Body = in.Body
	if err := a.store.Comments.Update(ctx, existing); err != nil {
		return CommentDTO{}, err
	}
	return toCommentDTO(existing, author), nil
}

func (a *App) DeleteComment(ctx context.Context, id int) error {
	return a.store.Comments.Delete(ctx, id)
}

// GetComment returns comment id with its author. A dangling author is
// reported as not found.
func (a *App) GetComment(ctx context.Context, id int) (CommentDTO, error) {
	comment, err := a.store.Comments.GetSingle(ctx, id)
	if err != nil {
		return CommentDTO{}, err
	}
	author, err := a.store.Users.GetSingle(ctx, comment.UserID)
	if err != nil {
		return CommentDTO{}, err
	}
	return toCommentDTO(comment, author), nil
}

// ListComments filters comments by author id, post id and author name
// substring. Comments whose author cannot be resolved are skipped.
func (a *App) ListComments(ctx context.Context, q CommentQuery) ([]CommentDTO, error) {
	var (
		comments []domain.Comment
		users    []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = a.store.Comments.GetMany(gctx)
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

	comments = store.Filter(comments,
		store.Equals(commentUserID, q.UserID),
		store.Equals(commentPostID, q.PostID),
	)
	return commentDTOs(ctx, comments, usersByID(users), q.UserName), nil
}

func commentDTOs(ctx context.Context, comments []domain.Comment, byID map[int]domain.User, userName string) []CommentDTO {
	byName := store.ContainsFold(userNameOf, userName)
	logger := util.LoggerFromContext(ctx)
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		author, ok := byID[c.UserID]
		if !ok {
			logger.Warn("skipping comment with unknown author", "comment_id", c.ID, "user_id", c.UserID)
			continue
		}
		if byName != nil && !byName(author) {
			continue
		}
		out = append(out, toCommentDTO(c, author))
	}
	return out
}

func commentUserID(c domain.Comment) int { return c.UserID }
func commentPostID(c domain.Comment) int { return c.PostID }
