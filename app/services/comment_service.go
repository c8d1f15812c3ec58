package services

import (
	"errors"
	"fmt"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// CommentService builds and moderates the two-level comment tree. Comments
// attach to posts, replies attach to top-level comments, and approval is
// decided at creation from the author's roles.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    *UserService
	policy   *auth.Policy
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users *UserService, policy *auth.Policy) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, policy: policy}
}

// AddComment creates a top-level comment on a post. Commenting is public:
// the commenter is resolved by email/username or created as a visitor. A
// comment whose content duplicates an earlier comment by the same author —
// on any post, the check is deliberately global — is a conflict. Approval
// is granted up front only to admin and guest authors; everyone else waits
// for moderation.
func (s *CommentService) AddComment(postID int, username, email, content string) (*models.Comment, error) {
	if err := s.policy.Decide(auth.ActionAddComment, nil); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(postID); err != nil {
		return nil, err
	}

	author, err := s.users.FindOrCreateCommenter(username, email)
	if err != nil {
		return nil, err
	}

	comment, err := s.newComment(author, postID, 0, content)
	if err != nil {
		return nil, err
	}

	// Attach with set semantics inside one store transaction.
	if _, err := s.posts.Mutate(postID, func(post *models.Post) error {
		post.AttachComment(comment.ID)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: comment saved but not attached: %v", ErrDependency, err)
	}

	return comment, nil
}

// AddReply creates a reply under a top-level comment. Same duplicate and
// approval rules as AddComment; the reply attaches to the parent's reply
// list instead of the post. The parent must be a top-level comment on the
// same post — threads never nest deeper than one level.
func (s *CommentService) AddReply(postID, parentID int, username, email, content string) (*models.Comment, error) {
	if err := s.policy.Decide(auth.ActionAddComment, nil); err != nil {
		return nil, err
	}
	parent, err := s.comments.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent.CommentOn != postID {
		return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrInvalidState)
	}
	if !parent.IsTopLevel() {
		return nil, fmt.Errorf("%w: replies can only target top-level comments", ErrInvalidState)
	}

	author, err := s.users.FindOrCreateCommenter(username, email)
	if err != nil {
		return nil, err
	}

	reply, err := s.newComment(author, postID, parentID, content)
	if err != nil {
		return nil, err
	}

	if _, err := s.comments.Mutate(parentID, func(c *models.Comment) error {
		c.AttachReply(reply.ID)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: reply saved but not attached: %v", ErrDependency, err)
	}

	return reply, nil
}

// newComment runs the shared duplicate check, approval decision and store
// write for comments and replies.
func (s *CommentService) newComment(author *models.User, postID, parentID int, content string) (*models.Comment, error) {
	if _, err := s.comments.FindByUserAndContent(author.ID, content); err == nil {
		return nil, fmt.Errorf("%w: looks like you have already said that", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	comment := &models.Comment{
		UserID:    author.ID,
		Content:   content,
		CommentOn: postID,
		Parent:    parentID,
		Approved:  author.Roles.HasAny(models.RoleAdmin, models.RoleGuest),
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return comment, nil
}

// Get retrieves a comment by ID.
func (s *CommentService) Get(id int) (*models.Comment, error) {
	return s.comments.GetByID(id)
}

// ListAll retrieves every comment, newest first.
func (s *CommentService) ListAll() ([]*models.Comment, error) {
	return s.comments.List()
}

// ListByUser retrieves a user's comments, newest first.
func (s *CommentService) ListByUser(userID int) ([]*models.Comment, error) {
	return s.comments.ListByUser(userID)
}

// ListByPost retrieves a post's comments, newest first.
func (s *CommentService) ListByPost(postID int) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(postID)
}

// ListReplies retrieves the replies to a top-level comment, newest first.
func (s *CommentService) ListReplies(parentID int) ([]*models.Comment, error) {
	if _, err := s.comments.GetByID(parentID); err != nil {
		return nil, err
	}
	return s.comments.ListByParent(parentID)
}

// Edit modifies a comment's content. Only the author may edit, no role
// needed. Identical content is a no-op returning the comment unchanged;
// otherwise the new content is appended as an inline edit record rather
// than overwriting the original.
func (s *CommentService) Edit(principal *auth.Principal, commentID int, newContent string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Decide(auth.ActionEditComment, principal, comment.UserID); err != nil {
		return nil, err
	}
	if comment.Content == newContent {
		return comment, nil
	}
	return s.comments.Mutate(commentID, func(c *models.Comment) error {
		c.AppendEdit(newContent)
		return nil
	})
}

// Delete removes a single comment. The policy deliberately demands that the
// principal is the comment's author AND holds admin — ordinary authors
// cannot self-delete. The reference on the parent post or comment is
// detached as well.
func (s *CommentService) Delete(principal *auth.Principal, commentID int) (*models.Comment, error) {
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Decide(auth.ActionDeleteComment, principal, comment.UserID); err != nil {
		return nil, err
	}
	if err := s.comments.Delete(commentID); err != nil {
		return nil, err
	}
	s.detach(comment)
	return comment, nil
}

// detach removes the dangling reference left by a deleted comment. A failed
// detach is not fatal: list fetches skip unresolvable IDs.
func (s *CommentService) detach(comment *models.Comment) {
	if comment.IsTopLevel() {
		_, _ = s.posts.Mutate(comment.CommentOn, func(post *models.Post) error {
			post.DetachComment(comment.ID)
			return nil
		})
		return
	}
	_, _ = s.comments.Mutate(comment.Parent, func(parent *models.Comment) error {
		parent.DetachReply(comment.ID)
		return nil
	})
}

// DeleteByUser removes every comment by a user. Admin only.
func (s *CommentService) DeleteByUser(principal *auth.Principal, userID int) (int, error) {
	if err := s.policy.Decide(auth.ActionBulkDeleteComments, principal); err != nil {
		return 0, err
	}
	deleted, err := s.comments.DeleteByUser(userID)
	if err != nil {
		return deleted, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return deleted, nil
}

// DeleteByPost removes every comment on a post. Admin only.
func (s *CommentService) DeleteByPost(principal *auth.Principal, postID int) (int, error) {
	if err := s.policy.Decide(auth.ActionBulkDeleteComments, principal); err != nil {
		return 0, err
	}
	deleted, err := s.comments.DeleteByPost(postID)
	if err != nil {
		return deleted, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return deleted, nil
}
