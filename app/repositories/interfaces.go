package repositories

import "inkpress/app/models"

// UserRepository defines the interface for user data access. Mutate runs a
// scoped modification of one user inside a single store transaction, so role
// grants and password writes land atomically and concurrent admin actions on
// the same user cannot race each other.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	FindByEmailOrUsername(email, username string) (*models.User, error)
	ListByRole(role models.Role) ([]*models.User, error)
	ListWithoutRole(role models.Role) ([]*models.User, error)
	Mutate(id int, fn func(user *models.User) error) (*models.User, error)
	Delete(id int) error
}

// PostRepository defines the interface for post data access. Mutate is used
// for comment-reference attachment with set semantics.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	GetByTitle(title string) (*models.Post, error)
	List(limit, offset int) ([]*models.Post, error)
	ListByAuthor(userID int) ([]*models.Post, error)
	Mutate(id int, fn func(post *models.Post) error) (*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	List() ([]*models.Comment, error)
	ListByUser(userID int) ([]*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	ListByParent(parentID int) ([]*models.Comment, error)
	FindByUserAndContent(userID int, content string) (*models.Comment, error)
	Mutate(id int, fn func(comment *models.Comment) error) (*models.Comment, error)
	Delete(id int) error
	DeleteByUser(userID int) (int, error)
	DeleteByPost(postID int) (int, error)
}

// BlogRepository defines the interface for the singleton blog document.
type BlogRepository interface {
	Get() (*models.Blog, error)
	Upsert(blog *models.Blog) error
}

// UploadRepository defines the interface for upload records.
type UploadRepository interface {
	Create(upload *models.Upload) error
	GetByID(id int) (*models.Upload, error)
	List() ([]*models.Upload, error)
	Delete(id int) (*models.Upload, error)
}
