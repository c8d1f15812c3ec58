package controllers

import (
	"net/http"

	"inkpress/app/middleware"
	"inkpress/app/models"
	"inkpress/app/services"
)

// BlogController handles HTTP requests for the singleton blog document.
type BlogController struct {
	blog *services.BlogService
}

// NewBlogController creates a new BlogController
func NewBlogController(blog *services.BlogService) *BlogController {
	return &BlogController{blog: blog}
}

// Show fetches the blog info with the admin reference resolved.
func (bc *BlogController) Show(w http.ResponseWriter, r *http.Request) {
	info, err := bc.blog.Get()
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched blog info", info)
}

// Upsert creates or replaces the blog document.
func (bc *BlogController) Upsert(w http.ResponseWriter, r *http.Request) {
	var blog models.Blog
	if err := decodeBody(r, &blog); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	saved, err := bc.blog.Upsert(middleware.PrincipalFrom(r.Context()), &blog)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully saved information", saved)
}
