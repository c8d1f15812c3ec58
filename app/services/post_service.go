package services

import (
	"errors"
	"fmt"
	"strings"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// PopulateDepth selects how much of a post's comment tree a fetch resolves.
type PopulateDepth int

const (
	// PopulateFlat returns comment IDs only.
	PopulateFlat PopulateDepth = iota
	// PopulateComments resolves comments with their authors, capped to the
	// first few per post.
	PopulateComments
	// PopulateThreads resolves comments and their replies, one level deep.
	PopulateThreads
)

// CommentPreviewCap limits how many comments a one-level fetch resolves per
// post.
const CommentPreviewCap = 3

// PostView is a post with its comment tree resolved to the requested depth.
type PostView struct {
	*models.Post
	Thread []*CommentView `json:"thread,omitempty"`
}

// CommentView is a comment with its author resolved and, at full depth, its
// replies.
type CommentView struct {
	*models.Comment
	Author  *models.User   `json:"author,omitempty"`
	Replies []*CommentView `json:"replies,omitempty"`
}

// PostService handles business logic for blog posts, including the
// delete cascade that keeps the comment store free of orphans.
type PostService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	policy   *auth.Policy
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, comments repositories.CommentRepository, users repositories.UserRepository, policy *auth.Policy) *PostService {
	return &PostService{posts: posts, comments: comments, users: users, policy: policy}
}

// Create creates a new post. Admins and guests only; the principal becomes
// the first author when none are given. Titles are unique.
func (s *PostService) Create(principal *auth.Principal, post *models.Post) error {
	if err := s.policy.Decide(auth.ActionCreatePost, principal); err != nil {
		return err
	}
	if len(post.Authors) == 0 {
		post.Authors = []int{principal.ID}
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.posts.Create(post); err != nil {
		if errors.Is(err, repositories.ErrDuplicateField) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return nil
}

// Get retrieves a post resolved to the requested depth.
func (s *PostService) Get(id int, depth PopulateDepth) (*PostView, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.populate(post, depth)
}

// List retrieves a page of posts resolved to the requested depth.
func (s *PostService) List(page, perPage int, depth PopulateDepth) ([]*PostView, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	posts, err := s.posts.List(perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	views := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		view, err := s.populate(post, depth)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// populate resolves a post's comment references. Flat depth keeps IDs only.
// One-level depth resolves authors and caps the list; full depth walks each
// top-level comment's replies, exactly one level down.
func (s *PostService) populate(post *models.Post, depth PopulateDepth) (*PostView, error) {
	view := &PostView{Post: post}
	if depth == PopulateFlat {
		return view, nil
	}

	ids := post.Comments
	if depth == PopulateComments && len(ids) > CommentPreviewCap {
		ids = ids[:CommentPreviewCap]
	}

	for _, id := range ids {
		comment, err := s.comments.GetByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Dangling reference; skip it.
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrDependency, err)
		}
		cv := &CommentView{Comment: comment}
		if author, err := s.users.GetByID(comment.UserID); err == nil {
			cv.Author = author
		}
		if depth == PopulateThreads {
			for _, replyID := range comment.Replies {
				reply, err := s.comments.GetByID(replyID)
				if err != nil {
					continue
				}
				rv := &CommentView{Comment: reply}
				if author, err := s.users.GetByID(reply.UserID); err == nil {
					rv.Author = author
				}
				cv.Replies = append(cv.Replies, rv)
			}
		}
		view.Thread = append(view.Thread, cv)
	}
	return view, nil
}

// Update modifies a post. Admins or one of the post's authors. A rename is
// held to the same unique-title rule as creation.
func (s *PostService) Update(principal *auth.Principal, post *models.Post) (*models.Post, error) {
	existing, err := s.posts.GetByID(post.ID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Decide(auth.ActionModifyPost, principal, existing.Authors...); err != nil {
		return nil, err
	}
	if post.Title != "" && !strings.EqualFold(post.Title, existing.Title) {
		if _, err := s.posts.GetByTitle(post.Title); err == nil {
			return nil, fmt.Errorf("%w: post title already in use", ErrConflict)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrDependency, err)
		}
	}
	return s.posts.Mutate(post.ID, func(p *models.Post) error {
		if post.Title != "" {
			p.Title = post.Title
		}
		if post.Content != "" {
			p.Content = post.Content
		}
		if post.FeaturedImage != "" {
			p.FeaturedImage = post.FeaturedImage
		}
		if len(post.Categories) > 0 {
			p.Categories = post.Categories
		}
		p.Touch()
		return p.Validate()
	})
}

// Delete removes a post and cascades to every comment on it, as a paired
// operation. The cascade runs after the post delete; if it fails, the post
// is already gone, so the partial completion is reported as a CascadeError
// instead of being masked.
func (s *PostService) Delete(principal *auth.Principal, id int) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Decide(auth.ActionDeletePost, principal, post.Authors...); err != nil {
		return nil, err
	}
	if err := s.posts.Delete(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	if _, err := s.comments.DeleteByPost(id); err != nil {
		return post, &CascadeError{Post: post, Err: err}
	}
	return post, nil
}

// DeleteByAuthor removes every post authored by the user, cascading each.
// Admins, or the author removing their own posts.
func (s *PostService) DeleteByAuthor(principal *auth.Principal, userID int) ([]*models.Post, error) {
	if err := s.policy.Decide(auth.ActionDeletePostsByUser, principal, userID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByAuthor(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	var deleted []*models.Post
	for _, post := range posts {
		if err := s.posts.Delete(post.ID); err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrDependency, err)
		}
		if _, err := s.comments.DeleteByPost(post.ID); err != nil {
			return append(deleted, post), &CascadeError{Post: post, Err: err}
		}
		deleted = append(deleted, post)
	}
	return deleted, nil
}
