package models

import "time"

// DefaultBlogDescription is used when the singleton is saved without one.
const DefaultBlogDescription = "Just another Inkpress site"

// Validate checks if the blog document meets all validation requirements
func (b *Blog) Validate() error {
	return validate.Struct(b)
}

// BeforeSave fills defaults ahead of the singleton upsert.
func (b *Blog) BeforeSave() {
	if b.Description == "" {
		b.Description = DefaultBlogDescription
	}
	if b.CreatedOn.IsZero() {
		b.CreatedOn = time.Now()
	}
}

// Validate checks if the upload record meets all validation requirements
func (u *Upload) Validate() error {
	return validate.Struct(u)
}
