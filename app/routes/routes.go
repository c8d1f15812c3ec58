package routes

import (
	"net/http"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"

	"inkpress/app/auth"
	"inkpress/app/config"
	"inkpress/app/controllers"
	"inkpress/app/middleware"
	"inkpress/app/repositories"
	"inkpress/app/services"
	"inkpress/app/storage"
)

// Setup wires repositories, services and controllers over the given Badger
// DB and returns the API router.
func Setup(db *badger.DB, cfg *config.Config, resolver middleware.Resolver) (*mux.Router, error) {
	policy := auth.NewPolicy(cfg.SuperAdmin)

	userRepo := repositories.NewBadgerUserRepository(db)
	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	blogRepo := repositories.NewBadgerBlogRepository(db)
	uploadRepo := repositories.NewBadgerUploadRepository(db)

	blobs, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(userRepo, policy)
	postService := services.NewPostService(postRepo, commentRepo, userRepo, policy)
	commentService := services.NewCommentService(commentRepo, postRepo, userService, policy)
	blogService := services.NewBlogService(blogRepo, userRepo, policy)
	uploadService := services.NewUploadService(uploadRepo, blobs)

	userController := controllers.NewUserController(userService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	blogController := controllers.NewBlogController(blogService)
	uploadController := controllers.NewUploadController(uploadService)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Authenticate(resolver))

	api := router.PathPrefix("/api").Subrouter()

	// Users API endpoints
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/subscribers", userController.Subscribers).Methods("GET")
	users.HandleFunc("/all", userController.Index).Methods("GET")
	users.HandleFunc("/register", userController.Register).Methods("POST")
	users.HandleFunc("/login", userController.Login).Methods("POST")
	users.HandleFunc("/subscribe/{userId:[0-9]+}", userController.Subscribe).Methods("PATCH")
	users.HandleFunc("/unsubscribe/{userId:[0-9]+}", userController.Unsubscribe).Methods("PATCH")
	users.HandleFunc("/makeguest/{userId:[0-9]+}", userController.MakeGuest).Methods("PATCH")
	users.HandleFunc("/removeguest/{userId:[0-9]+}", userController.RemoveGuest).Methods("PATCH")
	users.HandleFunc("/makeadmin/{userId:[0-9]+}", userController.MakeAdmin).Methods("PATCH")
	users.HandleFunc("/update/{userId:[0-9]+}", userController.Update).Methods("PATCH")
	users.HandleFunc("/updatepw/{userId:[0-9]+}", userController.UpdatePassword).Methods("PATCH")
	users.HandleFunc("/{userId:[0-9]+}", userController.Show).Methods("GET")
	users.HandleFunc("/{userId:[0-9]+}", userController.Delete).Methods("DELETE")

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/user/{userId:[0-9]+}", postController.DeleteByAuthor).Methods("DELETE")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Show).Methods("GET")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Update).Methods("PATCH")
	posts.HandleFunc("/{postId:[0-9]+}", postController.Delete).Methods("DELETE")

	// Comments API endpoints
	comments := api.PathPrefix("/comments").Subrouter()
	comments.HandleFunc("", commentController.Index).Methods("GET")
	comments.HandleFunc("/user/{userId:[0-9]+}", commentController.ByUser).Methods("GET")
	comments.HandleFunc("/user/{userId:[0-9]+}", commentController.DeleteByUser).Methods("DELETE")
	comments.HandleFunc("/post/{postId:[0-9]+}", commentController.ByPost).Methods("GET")
	comments.HandleFunc("/post/{postId:[0-9]+}", commentController.DeleteByPost).Methods("DELETE")
	comments.HandleFunc("/replies/{commentId:[0-9]+}", commentController.Replies).Methods("GET")
	comments.HandleFunc("/reply/{postId:[0-9]+}/{commentId:[0-9]+}", commentController.Reply).Methods("POST")
	comments.HandleFunc("/{postId:[0-9]+}", commentController.Create).Methods("POST")
	comments.HandleFunc("/{commentId:[0-9]+}", commentController.Edit).Methods("PATCH")
	comments.HandleFunc("/{commentId:[0-9]+}", commentController.Delete).Methods("DELETE")

	// Blog API endpoints
	blog := api.PathPrefix("/blog").Subrouter()
	blog.HandleFunc("", blogController.Show).Methods("GET")
	blog.HandleFunc("", blogController.Upsert).Methods("POST")

	// Uploads API endpoints
	uploads := api.PathPrefix("/uploads").Subrouter()
	uploads.HandleFunc("", uploadController.Create).Methods("POST")
	uploads.HandleFunc("", uploadController.Index).Methods("GET")
	uploads.HandleFunc("/{fileId:[0-9]+}", uploadController.Show).Methods("GET")
	uploads.HandleFunc("/{fileId:[0-9]+}", uploadController.Delete).Methods("DELETE")

	// Health check
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Server running :)"}`))
	}).Methods("GET")

	return router, nil
}

// StartServer starts the HTTP server on the specified address with the given router.
func StartServer(addr string, router http.Handler) error {
	return http.ListenAndServe(addr, router)
}
