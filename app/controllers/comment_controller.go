package controllers

import (
	"net/http"

	"inkpress/app/middleware"
	"inkpress/app/services"
)

// CommentController handles HTTP requests for comments and replies
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// commentBody is the submission shape for comments and replies. Commenting
// is public, so the author is identified by username/email rather than by a
// session. All three fields are required; email format is checked by the
// commenter lookup.
type commentBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Content  string `json:"content"`
}

func (b *commentBody) complete() bool {
	return b.Username != "" && b.Email != "" && b.Content != ""
}

// Index lists all comments on the site, newest first.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	comments, err := cc.comments.ListAll()
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched comments", comments)
}

// ByUser lists one user's comments.
func (cc *CommentController) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	comments, err := cc.comments.ListByUser(userID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched comments", comments)
}

// ByPost lists one post's comments.
func (cc *CommentController) ByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	comments, err := cc.comments.ListByPost(postID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched comments", comments)
}

// Replies lists the replies under a top-level comment.
func (cc *CommentController) Replies(w http.ResponseWriter, r *http.Request) {
	parentID, err := pathID(r, "commentId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	replies, err := cc.comments.ListReplies(parentID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched comment replies", replies)
}

// Create adds a top-level comment to a post.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var body commentBody
	if err := decodeBody(r, &body); err != nil || !body.complete() {
		sendError(w, services.ErrInvalidState)
		return
	}
	comment, err := cc.comments.AddComment(postID, body.Username, body.Email, body.Content)
	if err != nil {
		sendError(w, err)
		return
	}
	message := "Comment was successfully added"
	if !comment.Approved {
		message = "Success, your comment will be posted once it is approved"
	}
	sendJSON(w, http.StatusOK, message, comment)
}

// Reply adds a reply under a top-level comment.
func (cc *CommentController) Reply(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	parentID, err := pathID(r, "commentId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var body commentBody
	if err := decodeBody(r, &body); err != nil || !body.complete() {
		sendError(w, services.ErrInvalidState)
		return
	}
	reply, err := cc.comments.AddReply(postID, parentID, body.Username, body.Email, body.Content)
	if err != nil {
		sendError(w, err)
		return
	}
	message := "Comment was successfully added"
	if !reply.Approved {
		message = "Success, your comment will be posted once it is approved"
	}
	sendJSON(w, http.StatusOK, message, reply)
}

// Edit modifies a comment's content.
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil || body.Content == "" {
		sendError(w, services.ErrInvalidState)
		return
	}
	comment, err := cc.comments.Edit(middleware.PrincipalFrom(r.Context()), commentID, body.Content)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Comment successfully edited", comment)
}

// Delete removes a single comment.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	comment, err := cc.comments.Delete(middleware.PrincipalFrom(r.Context()), commentID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Comment successfully deleted", comment)
}

// DeleteByUser bulk-deletes every comment by one user.
func (cc *CommentController) DeleteByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	deleted, err := cc.comments.DeleteByUser(middleware.PrincipalFrom(r.Context()), userID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Comments successfully deleted", map[string]int{"deleted": deleted})
}

// DeleteByPost bulk-deletes every comment on one post.
func (cc *CommentController) DeleteByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	deleted, err := cc.comments.DeleteByPost(middleware.PrincipalFrom(r.Context()), postID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Comments successfully deleted", map[string]int{"deleted": deleted})
}
