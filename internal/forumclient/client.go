package forumclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"forummini/internal/app"
)

// Client calls the forum REST API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError represents a forum error response.
type APIError struct {
	Status    int
	Message   string
	Code      string
	RequestID string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewClient constructs a forum API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateUser(ctx context.Context, userName, password string) (app.UserDTO, error) {
	payload := map[string]string{"userName": userName, "password": password}
	var user app.UserDTO
	err := c.doJSON(ctx, http.MethodPost, "/users", payload, &user)
	return user, err
}

func (c *Client) UpdateUser(ctx context.Context, id int, userName, password string) (app.UserDTO, error) {
	payload := map[string]any{"id": id, "userName": userName, "password": password}
	var user app.UserDTO
	err := c.doJSON(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), payload, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) GetUser(ctx context.Context, id int) (app.UserDTO, error) {
	var user app.UserDTO
	err := c.doJSON(ctx, http.MethodGet, "/users/"+strconv.Itoa(id), nil, &user)
	return user, err
}

func (c *Client) ListUsers(ctx context.Context, userName string) ([]app.UserDTO, error) {
	q := url.Values{}
	setString(q, "username", userName)
	var users []app.UserDTO
	err := c.doJSON(ctx, http.MethodGet, withQuery("/users", q), nil, &users)
	return users, err
}

func (c *Client) CreatePost(ctx context.Context, title, body string, userID int) (app.PostDTO, error) {
	payload := map[string]any{"title": title, "body": body, "userId": userID}
	var post app.PostDTO
	err := c.doJSON(ctx, http.MethodPost, "/posts", payload, &post)
	return post, err
}

func (c *Client) UpdatePost(ctx context.Context, id int, title, body string) (app.PostDTO, error) {
	payload := map[string]any{"id": id, "title": title, "body": body}
	var post app.PostDTO
	err := c.doJSON(ctx, http.MethodPut, "/posts/"+strconv.Itoa(id), payload, &post)
	return post, err
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) GetPost(ctx context.Context, id int, includeComments bool) (app.PostDTO, error) {
	q := url.Values{}
	if includeComments {
		q.Set("includeComments", "true")
	}
	var post app.PostDTO
	err := c.doJSON(ctx, http.MethodGet, withQuery("/posts/"+strconv.Itoa(id), q), nil, &post)
	return post, err
}

func (c *Client) ListPosts(ctx context.Context, query app.PostQuery) ([]app.PostDTO, error) {
	q := url.Values{}
	setString(q, "title", query.Title)
	setInt(q, "userId", query.UserID)
	setString(q, "userName", query.UserName)
	var posts []app.PostDTO
	err := c.doJSON(ctx, http.MethodGet, withQuery("/posts", q), nil, &posts)
	return posts, err
}

func (c *Client) CreateComment(ctx context.Context, body string, userID, postID int) (app.CommentDTO, error) {
	payload := map[string]any{"body": body, "userId": userID, "postId": postID}
	var comment app.CommentDTO
	err := c.doJSON(ctx, http.MethodPost, "/comments", payload, &comment)
	return comment, err
}

func (c *Client) UpdateComment(ctx context.Context, id int, body string) (app.CommentDTO, error) {
	payload := map[string]any{"id": id, "body": body}
	var comment app.CommentDTO
	err := c.doJSON(ctx, http.MethodPut, "/comments/"+strconv.Itoa(id), payload, &comment)
	return comment, err
}

func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "/comments/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) GetComment(ctx context.Context, id int) (app.CommentDTO, error) {
	var comment app.CommentDTO
	err := c.doJSON(ctx, http.MethodGet, "/comments/"+strconv.Itoa(id), nil, &comment)
	return comment, err
}

func (c *Client) ListComments(ctx context.Context, query app.CommentQuery) ([]app.CommentDTO, error) {
	q := url.Values{}
	setInt(q, "userId", query.UserID)
	setInt(q, "postId", query.PostID)
	setString(q, "userName", query.UserName)
	var comments []app.CommentDTO
	err := c.doJSON(ctx, http.MethodGet, withQuery("/comments", q), nil, &comments)
	return comments, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error     string `json:"error"`
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{
			Status:    resp.StatusCode,
			Message:   msg,
			Code:      strings.TrimSpace(errResp.Code),
			RequestID: strings.TrimSpace(errResp.RequestID),
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func setString(q url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}
