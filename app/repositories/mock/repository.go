// Package mock provides in-memory repository implementations for service
// tests. They mirror the badger-backed implementations, including the
// transactional Mutate semantics (the whole mutation happens under one lock).
package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"inkpress/app/models"
	"inkpress/app/repositories"
)

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int]*models.User), nextID: 1}
}

func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) ||
			strings.EqualFold(existing.Username, user.Username) {
			return fmt.Errorf("%w: username or email already registered", repositories.ErrDuplicateField)
		}
	}

	user.ID = m.nextID
	m.nextID++
	user.BeforeCreate()
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(user), nil
}

func (m *UserRepository) FindByEmailOrUsername(email, username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if (email != "" && strings.EqualFold(user.Email, email)) ||
			(username != "" && strings.EqualFold(user.Username, username)) {
			return cloneUser(user), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) ListByRole(role models.Role) ([]*models.User, error) {
	return m.list(func(u *models.User) bool { return u.Roles.Has(role) })
}

func (m *UserRepository) ListWithoutRole(role models.Role) ([]*models.User, error) {
	return m.list(func(u *models.User) bool { return !u.Roles.Has(role) })
}

func (m *UserRepository) list(keep func(*models.User) bool) ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var users []*models.User
	for _, user := range m.users {
		if keep(user) {
			users = append(users, cloneUser(user))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *UserRepository) Mutate(id int, fn func(user *models.User) error) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	next := cloneUser(user)
	if err := fn(next); err != nil {
		return nil, err
	}
	m.users[id] = next
	return cloneUser(next), nil
}

func (m *UserRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.users[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[int]*models.Post), nextID: 1}
}

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.posts {
		if strings.EqualFold(existing.Title, post.Title) {
			return fmt.Errorf("%w: post title already in use", repositories.ErrDuplicateField)
		}
	}

	post.ID = m.nextID
	m.nextID++
	post.BeforeCreate()
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) GetByTitle(title string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, post := range m.posts {
		if strings.EqualFold(post.Title, title) {
			return clonePost(post), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) List(limit, offset int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var all []*models.Post
	for _, post := range m.posts {
		all = append(all, clonePost(post))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *PostRepository) ListByAuthor(userID int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var posts []*models.Post
	for _, post := range m.posts {
		if post.HasAuthor(userID) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Mutate(id int, fn func(post *models.Post) error) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	next := clonePost(post)
	if err := fn(next); err != nil {
		return nil, err
	}
	m.posts[id] = next
	return clonePost(next), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex

	// FailDeleteByPost simulates a store failure during the post-deletion
	// cascade.
	FailDeleteByPost bool
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[int]*models.Comment), nextID: 1}
}

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	comment.BeforeCreate()
	m.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return cloneComment(comment), nil
}

func (m *CommentRepository) List() ([]*models.Comment, error) {
	return m.list(func(*models.Comment) bool { return true })
}

func (m *CommentRepository) ListByUser(userID int) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool { return c.UserID == userID })
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool { return c.CommentOn == postID })
}

func (m *CommentRepository) ListByParent(parentID int) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool { return c.Parent == parentID })
}

func (m *CommentRepository) FindByUserAndContent(userID int, content string) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, comment := range m.comments {
		if comment.UserID == userID && comment.Content == content {
			return cloneComment(comment), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *CommentRepository) list(keep func(*models.Comment) bool) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, comment := range m.comments {
		if keep(comment) {
			comments = append(comments, cloneComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedOn.Equal(comments[j].CreatedOn) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedOn.After(comments[j].CreatedOn)
	})
	return comments, nil
}

func (m *CommentRepository) Mutate(id int, fn func(comment *models.Comment) error) (*models.Comment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	next := cloneComment(comment)
	if err := fn(next); err != nil {
		return nil, err
	}
	m.comments[id] = next
	return cloneComment(next), nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByUser(userID int) (int, error) {
	return m.deleteWhere(func(c *models.Comment) bool { return c.UserID == userID })
}

func (m *CommentRepository) DeleteByPost(postID int) (int, error) {
	if m.FailDeleteByPost {
		return 0, fmt.Errorf("simulated store failure")
	}
	return m.deleteWhere(func(c *models.Comment) bool { return c.CommentOn == postID })
}

func (m *CommentRepository) deleteWhere(match func(*models.Comment) bool) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	deleted := 0
	for id, comment := range m.comments {
		if match(comment) {
			delete(m.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

type BlogRepository struct {
	blog  *models.Blog
	mutex sync.RWMutex
}

func NewBlogRepository() *BlogRepository {
	return &BlogRepository{}
}

func (m *BlogRepository) Get() (*models.Blog, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.blog == nil {
		return nil, repositories.ErrNotFound
	}
	out := *m.blog
	return &out, nil
}

func (m *BlogRepository) Upsert(blog *models.Blog) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.blog != nil {
		blog.ID = m.blog.ID
		blog.CreatedOn = m.blog.CreatedOn
	} else {
		blog.ID = 1
	}
	blog.BeforeSave()
	out := *blog
	m.blog = &out
	return nil
}

type UploadRepository struct {
	uploads map[int]*models.Upload
	nextID  int
	mutex   sync.RWMutex
}

func NewUploadRepository() *UploadRepository {
	return &UploadRepository{uploads: make(map[int]*models.Upload), nextID: 1}
}

func (m *UploadRepository) Create(upload *models.Upload) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	upload.ID = m.nextID
	m.nextID++
	out := *upload
	m.uploads[upload.ID] = &out
	return nil
}

func (m *UploadRepository) GetByID(id int) (*models.Upload, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	upload, exists := m.uploads[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *upload
	return &out, nil
}

func (m *UploadRepository) List() ([]*models.Upload, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var uploads []*models.Upload
	for _, upload := range m.uploads {
		out := *upload
		uploads = append(uploads, &out)
	}
	sort.Slice(uploads, func(i, j int) bool { return uploads[i].ID < uploads[j].ID })
	return uploads, nil
}

func (m *UploadRepository) Delete(id int) (*models.Upload, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	upload, exists := m.uploads[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	delete(m.uploads, id)
	out := *upload
	return &out, nil
}

func cloneUser(u *models.User) *models.User {
	out := *u
	out.Roles = u.Roles.Clone()
	return &out
}

func clonePost(p *models.Post) *models.Post {
	out := *p
	out.Authors = append([]int(nil), p.Authors...)
	out.Categories = append([]string(nil), p.Categories...)
	out.Comments = append([]int(nil), p.Comments...)
	return &out
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.Replies = append([]int(nil), c.Replies...)
	return &out
}
