package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"forummini/internal/app"
	"forummini/internal/forumclient"
)

func idFlag() cli.Flag {
	return &cli.IntFlag{Name: "id", Usage: "Record id", Required: true}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage users",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-name", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					user, err := client(c).CreateUser(c.Context, c.String("user-name"), c.String("password"))
					return output(c, user, err)
				},
			},
			{
				Name:  "update",
				Usage: "Replace a user's name and password",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{Name: "user-name", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					user, err := client(c).UpdateUser(c.Context, c.Int("id"), c.String("user-name"), c.String("password"))
					return output(c, user, err)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a user",
				Flags: []cli.Flag{idFlag()},
				Action: func(c *cli.Context) error {
					return apiFailure(client(c).DeleteUser(c.Context, c.Int("id")))
				},
			},
			{
				Name:  "get",
				Usage: "Show one user",
				Flags: []cli.Flag{idFlag()},
				Action: func(c *cli.Context) error {
					user, err := client(c).GetUser(c.Context, c.Int("id"))
					return output(c, user, err)
				},
			},
			{
				Name:  "list",
				Usage: "List users, optionally by name substring",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-name", Aliases: []string{"u"}},
				},
				Action: func(c *cli.Context) error {
					users, err := client(c).ListUsers(c.Context, c.String("user-name"))
					return output(c, users, err)
				},
			},
		},
	}
}

func postsCommand() *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "Manage posts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a post",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}},
					&cli.IntFlag{Name: "user-id", Required: true},
				},
				Action: func(c *cli.Context) error {
					post, err := client(c).CreatePost(c.Context, c.String("title"), c.String("body"), c.Int("user-id"))
					return output(c, post, err)
				},
			},
			{
				Name:  "update",
				Usage: "Replace a post's title and body",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}},
				},
				Action: func(c *cli.Context) error {
					post, err := client(c).UpdatePost(c.Context, c.Int("id"), c.String("title"), c.String("body"))
					return output(c, post, err)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a post",
				Flags: []cli.Flag{idFlag()},
				Action: func(c *cli.Context) error {
					return apiFailure(client(c).DeletePost(c.Context, c.Int("id")))
				},
			},
			{
				Name:  "get",
				Usage: "Show one post",
				Flags: []cli.Flag{
					idFlag(),
					&cli.BoolFlag{Name: "include-comments", Aliases: []string{"c"}},
				},
				Action: func(c *cli.Context) error {
					post, err := client(c).GetPost(c.Context, c.Int("id"), c.Bool("include-comments"))
					return output(c, post, err)
				},
			},
			{
				Name:  "list",
				Usage: "List posts filtered by title, author id or author name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
					&cli.IntFlag{Name: "user-id"},
					&cli.StringFlag{Name: "user-name", Aliases: []string{"u"}},
				},
				Action: func(c *cli.Context) error {
					posts, err := client(c).ListPosts(c.Context, app.PostQuery{
						Title:    c.String("title"),
						UserID:   optionalInt(c, "user-id"),
						UserName: c.String("user-name"),
					})
					return output(c, posts, err)
				},
			},
		},
	}
}

func commentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "Manage comments",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Comment on a post",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Required: true},
					&cli.IntFlag{Name: "user-id", Required: true},
					&cli.IntFlag{Name: "post-id", Required: true},
				},
				Action: func(c *cli.Context) error {
					comment, err := client(c).CreateComment(c.Context, c.String("body"), c.Int("user-id"), c.Int("post-id"))
					return output(c, comment, err)
				},
			},
			{
				Name:  "update",
				Usage: "Replace a comment's body",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					comment, err := client(c).UpdateComment(c.Context, c.Int("id"), c.String("body"))
					return output(c, comment, err)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete a comment",
				Flags: []cli.Flag{idFlag()},
				Action: func(c *cli.Context) error {
					return apiFailure(client(c).DeleteComment(c.Context, c.Int("id")))
				},
			},
			{
				Name:  "get",
				Usage: "Show one comment",
				Flags: []cli.Flag{idFlag()},
				Action: func(c *cli.Context) error {
					comment, err := client(c).GetComment(c.Context, c.Int("id"))
					return output(c, comment, err)
				},
			},
			{
				Name:  "list",
				Usage: "List comments filtered by author id, post id or author name",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user-id"},
					&cli.IntFlag{Name: "post-id"},
					&cli.StringFlag{Name: "user-name", Aliases: []string{"u"}},
				},
				Action: func(c *cli.Context) error {
					comments, err := client(c).ListComments(c.Context, app.CommentQuery{
						UserID:   optionalInt(c, "user-id"),
						PostID:   optionalInt(c, "post-id"),
						UserName: c.String("user-name"),
					})
					return output(c, comments, err)
				},
			},
		},
	}
}

func client(c *cli.Context) *forumclient.Client {
	return forumclient.NewClient(c.String("server"))
}

func optionalInt(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

// output prints v as indented JSON, or the API failure.
func output(c *cli.Context, v any, err error) error {
	if err != nil {
		return apiFailure(err)
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func apiFailure(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *forumclient.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s (status %d)", apiErr.Message, apiErr.Status)
	}
	return fmt.Errorf("request failed: %w", err)
}
