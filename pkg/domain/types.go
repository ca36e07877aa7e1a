package domain

// Entity names used in documents, errors and logs.
const (
	EntityUser    = "user"
	EntityPost    = "post"
	EntityComment = "comment"
)

// Entity is satisfied by every record kept in a collection document.
// WithID returns a copy of the record carrying the given id.
type Entity[T any] interface {
	EntityID() int
	WithID(id int) T
}

// User is a forum account. Password is kept as supplied.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Post is a forum post authored by UserID.
type Post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Comment is a reply by UserID on PostID.
type Comment struct {
	ID     int    `json:"id"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
	PostID int    `json:"postId"`
}

func (u User) EntityID() int { return u.ID }

func (u User) WithID(id int) User {
	u.ID = id
	return u
}

func (p Post) EntityID() int { return p.ID }

func (p Post) WithID(id int) Post {
	p.ID = id
	return p
}

func (c Comment) EntityID() int { return c.ID }

func (c Comment) WithID(id int) Comment {
	c.ID = id
	return c
}
