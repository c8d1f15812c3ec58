package controllers

import (
	"net/http"
	"strconv"

	"inkpress/app/middleware"
	"inkpress/app/models"
	"inkpress/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// depthFromQuery maps the populate query parameter onto a fetch depth.
// Unknown or absent values get the one-level preview.
func depthFromQuery(r *http.Request) services.PopulateDepth {
	switch r.URL.Query().Get("populate") {
	case "none":
		return services.PopulateFlat
	case "full":
		return services.PopulateThreads
	default:
		return services.PopulateComments
	}
}

// Index handles listing posts with pagination and populate depth.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 10
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 {
		perPage = pp
	}

	posts, err := pc.posts.List(page, perPage, depthFromQuery(r))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched posts", posts)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	post, err := pc.posts.Get(id, depthFromQuery(r))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched post", post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := decodeBody(r, &post); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	if err := pc.posts.Create(middleware.PrincipalFrom(r.Context()), &post); err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Post successfully created", post)
}

// Update handles modifying an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var post models.Post
	if err := decodeBody(r, &post); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	post.ID = id

	updated, err := pc.posts.Update(middleware.PrincipalFrom(r.Context()), &post)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Post successfully updated", updated)
}

// Delete handles deleting a post together with its comments.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	post, err := pc.posts.Delete(middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		// The post may already be gone when the comment cascade fails;
		// surface the inconsistency rather than masking it.
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Post and its comments successfully deleted", post)
}

// DeleteByAuthor handles bulk-deleting every post by one author.
func (pc *PostController) DeleteByAuthor(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	deleted, err := pc.posts.DeleteByAuthor(middleware.PrincipalFrom(r.Context()), userID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Posts successfully deleted", deleted)
}
