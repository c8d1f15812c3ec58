package services

import (
	"fmt"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// BlogInfo is the blog document with its admin resolved to the public
// fields only.
type BlogInfo struct {
	*models.Blog
	Admin *AdminRef `json:"adminUser,omitempty"`
}

// AdminRef exposes the admin's username and email, nothing else.
type AdminRef struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BlogService manages the singleton site-metadata document.
type BlogService struct {
	blogs  repositories.BlogRepository
	users  repositories.UserRepository
	policy *auth.Policy
}

// NewBlogService creates a new BlogService
func NewBlogService(blogs repositories.BlogRepository, users repositories.UserRepository, policy *auth.Policy) *BlogService {
	return &BlogService{blogs: blogs, users: users, policy: policy}
}

// Get retrieves the blog document with the admin reference resolved.
func (s *BlogService) Get() (*BlogInfo, error) {
	blog, err := s.blogs.Get()
	if err != nil {
		return nil, err
	}
	info := &BlogInfo{Blog: blog}
	if admin, err := s.users.GetByID(blog.AdminID); err == nil {
		info.Admin = &AdminRef{Username: admin.Username, Email: admin.Email}
	}
	return info, nil
}

// Upsert creates or replaces the blog document in one operation, keeping
// the at-most-one invariant. Admins or the super identity only; the
// principal becomes the recorded site admin.
func (s *BlogService) Upsert(principal *auth.Principal, blog *models.Blog) (*models.Blog, error) {
	if err := s.policy.Decide(auth.ActionUpsertBlog, principal); err != nil {
		return nil, err
	}
	blog.AdminID = principal.ID
	blog.BeforeSave()
	if err := blog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.blogs.Upsert(blog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return blog, nil
}
