package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is an identity on the site. Roles is a set, not a single value: a
// user can be a subscriber and a guest author at the same time. Password
// holds a bcrypt digest and stays empty until the user is promoted to guest
// or admin; an empty digest can never pass login.
type User struct {
	ID         int       `json:"id" validate:"gte=0"`
	Username   string    `json:"username" validate:"required,min=2,max=50"`
	Email      string    `json:"email" validate:"required,email"`
	Roles      RoleSet   `json:"roles" validate:"-"`
	Password   string    `json:"-" validate:"-"`
	Avatar     string    `json:"avatar,omitempty" validate:"-"`
	CreatedOn  time.Time `json:"createdOn" validate:"-"`
	ModifiedOn time.Time `json:"modifiedOn,omitempty" validate:"-"`
}

// Post is a blog post. Comments holds comment IDs in insertion order, which
// is also chronological order. Authors holds user IDs; the first author is
// the creator.
type Post struct {
	ID            int       `json:"id" validate:"gte=0"`
	Title         string    `json:"title" validate:"required,min=3,max=200"`
	Authors       []int     `json:"authors" validate:"-"`
	Content       string    `json:"content" validate:"required"`
	FeaturedImage string    `json:"featuredImage,omitempty" validate:"-"`
	Categories    []string  `json:"categories" validate:"-"`
	Comments      []int     `json:"comments" validate:"-"`
	CreatedOn     time.Time `json:"createdOn" validate:"-"`
	ModifiedOn    time.Time `json:"modifiedOn,omitempty" validate:"-"`
}

// Comment is a comment on a post. Parent is zero for top-level comments; a
// reply references its top-level parent and never carries replies of its
// own, so a thread is at most two levels deep. Replies is only populated on
// top-level comments.
type Comment struct {
	ID         int       `json:"id" validate:"gte=0"`
	UserID     int       `json:"user" validate:"required,gt=0"`
	Content    string    `json:"content" validate:"required,min=1,max=1000"`
	CommentOn  int       `json:"commentOn" validate:"required,gt=0"`
	Approved   bool      `json:"approved"`
	Parent     int       `json:"parent,omitempty" validate:"gte=0"`
	Replies    []int     `json:"replies,omitempty" validate:"-"`
	CreatedOn  time.Time `json:"createdOn" validate:"-"`
	ModifiedOn time.Time `json:"modifiedOn,omitempty" validate:"-"`
}

// Blog is the singleton site-metadata document. At most one exists; creation
// and update are a single upsert.
type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"-"`
	URL         string    `json:"url" validate:"required,url"`
	AdminID     int       `json:"admin" validate:"gte=0"`
	Email       string    `json:"email" validate:"required,email"`
	CreatedOn   time.Time `json:"createdOn" validate:"-"`
}

// Upload records a stored file. No ownership or post association is kept.
type Upload struct {
	ID       int    `json:"id"`
	Filename string `json:"filename" validate:"required"`
	URL      string `json:"url" validate:"required"`
}
