package controllers

import (
	"net/http"

	"inkpress/app/auth"
	"inkpress/app/middleware"
	"inkpress/app/models"
	"inkpress/app/services"
)

// UserController handles HTTP requests for user accounts and the role
// lifecycle.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Subscribers lists all subscriber accounts.
func (uc *UserController) Subscribers(w http.ResponseWriter, r *http.Request) {
	users, err := uc.users.ListSubscribers()
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched users", users)
}

// Index lists every non-admin account.
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := uc.users.ListNonAdmins()
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched users", users)
}

// Show fetches a single user.
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	user, err := uc.users.Get(id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully fetched user", user)
}

// Register creates a new subscriber account.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	user, err := uc.users.Register(body.Username, body.Email)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "User registration was successful", user)
}

// Login verifies credentials and returns the account.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	user, err := uc.users.Login(body.Email, body.Password)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Login successful", user)
}

// Subscribe grants the subscriber role to the target user.
func (uc *UserController) Subscribe(w http.ResponseWriter, r *http.Request) {
	uc.roleTransition(w, r, "Success, you have subscribed to the newsletter",
		uc.users.Subscribe)
}

// Unsubscribe revokes the subscriber role from the target user.
func (uc *UserController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	uc.roleTransition(w, r, "User successfully unsubscribed",
		uc.users.Unsubscribe)
}

// MakeGuest promotes the target to guest, setting their password.
func (uc *UserController) MakeGuest(w http.ResponseWriter, r *http.Request) {
	uc.passwordTransition(w, r, "Success, the user is now a guest author",
		uc.users.MakeGuest)
}

// RemoveGuest demotes the target from guest.
func (uc *UserController) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	uc.roleTransition(w, r, "User removed from the guest list",
		uc.users.RemoveGuest)
}

// MakeAdmin promotes the target to admin. Super identity only.
func (uc *UserController) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	uc.passwordTransition(w, r, "Success, the user is now an admin",
		uc.users.MakeAdmin)
}

// Update changes the target's username/email.
func (uc *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		sendError(w, services.ErrInvalidState)
		return
	}
	user, err := uc.users.UpdateDetails(middleware.PrincipalFrom(r.Context()), id, body.Username, body.Email)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Successfully updated", user)
}

// UpdatePassword changes the target's password.
func (uc *UserController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	uc.passwordTransition(w, r, "Password successfully updated",
		uc.users.UpdatePassword)
}

// Delete removes a guest or subscriber account.
func (uc *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	user, err := uc.users.DeleteUser(middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, "Success: user account deleted", user)
}

// roleTransition runs a password-less lifecycle transition endpoint.
func (uc *UserController) roleTransition(w http.ResponseWriter, r *http.Request, message string,
	transition func(principal *auth.Principal, targetID int) (*models.User, error)) {
	id, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	user, err := transition(middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, message, user)
}

// passwordTransition runs a lifecycle transition endpoint that carries a
// password in the body.
func (uc *UserController) passwordTransition(w http.ResponseWriter, r *http.Request, message string,
	transition func(principal *auth.Principal, targetID int, password string) (*models.User, error)) {
	id, err := pathID(r, "userId")
	if err != nil {
		sendError(w, services.ErrNotFound)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil || body.Password == "" {
		sendError(w, services.ErrInvalidState)
		return
	}
	user, err := transition(middleware.PrincipalFrom(r.Context()), id, body.Password)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, message, user)
}
