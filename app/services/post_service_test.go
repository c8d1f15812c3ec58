package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/app/auth"
	"inkpress/app/models"
	"inkpress/app/repositories/mock"
)

type postFixture struct {
	posts    *PostService
	comments *CommentService
	users    *UserService
	store    *mock.CommentRepository
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	policy := auth.NewPolicy(superName)
	userRepo := mock.NewUserRepository()
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	users := NewUserService(userRepo, policy)

	return &postFixture{
		posts:    NewPostService(postRepo, commentRepo, userRepo, policy),
		comments: NewCommentService(commentRepo, postRepo, users, policy),
		users:    users,
		store:    commentRepo,
	}
}

func TestCreatePost(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)

	post := &models.Post{Title: "Hello world", Content: "first!"}
	require.NoError(t, f.posts.Create(asPrincipal(guest), post))
	assert.Equal(t, []int{guest.ID}, post.Authors)
	assert.Equal(t, []string{models.DefaultCategory}, post.Categories)

	t.Run("duplicate title conflicts", func(t *testing.T) {
		err := f.posts.Create(asPrincipal(guest), &models.Post{Title: "HELLO WORLD", Content: "again"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("subscribers cannot post", func(t *testing.T) {
		sub := seedUser(t, f.users, "sam")
		err := f.posts.Create(asPrincipal(sub), &models.Post{Title: "Nope", Content: "x"})
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("invalid post rejected", func(t *testing.T) {
		err := f.posts.Create(asPrincipal(guest), &models.Post{Title: "ab", Content: "x"})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetPostPopulation(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)

	post := &models.Post{Title: "Busy thread", Content: "body"}
	require.NoError(t, f.posts.Create(asPrincipal(guest), post))

	var first *models.Comment
	for i := 0; i < 5; i++ {
		c, err := f.comments.AddComment(post.ID, "vinny", "vinny@example.com", fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		if first == nil {
			first = c
		}
	}
	_, err := f.comments.AddReply(post.ID, first.ID, "wally", "wally@example.com", "a reply")
	require.NoError(t, err)

	t.Run("flat keeps ids only", func(t *testing.T) {
		view, err := f.posts.Get(post.ID, PopulateFlat)
		require.NoError(t, err)
		assert.Len(t, view.Comments, 5)
		assert.Nil(t, view.Thread)
	})

	t.Run("preview caps resolved comments", func(t *testing.T) {
		view, err := f.posts.Get(post.ID, PopulateComments)
		require.NoError(t, err)
		require.Len(t, view.Thread, CommentPreviewCap)
		require.NotNil(t, view.Thread[0].Author)
		assert.Equal(t, "vinny", view.Thread[0].Author.Username)
		assert.Nil(t, view.Thread[0].Replies)
	})

	t.Run("threads resolve replies one level", func(t *testing.T) {
		view, err := f.posts.Get(post.ID, PopulateThreads)
		require.NoError(t, err)
		assert.Len(t, view.Thread, 5)

		var withReplies *CommentView
		for _, cv := range view.Thread {
			if cv.ID == first.ID {
				withReplies = cv
			}
		}
		require.NotNil(t, withReplies)
		require.Len(t, withReplies.Replies, 1)
		assert.Equal(t, "a reply", withReplies.Replies[0].Content)
	})

	t.Run("dangling references are skipped", func(t *testing.T) {
		require.NoError(t, f.store.Delete(first.ID))

		view, err := f.posts.Get(post.ID, PopulateThreads)
		require.NoError(t, err)
		assert.Len(t, view.Thread, 4)
	})
}

func TestUpdatePost(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)
	other := seedUser(t, f.users, "olly", models.RoleGuest)
	admin := seedUser(t, f.users, "alice", models.RoleAdmin)

	post := &models.Post{Title: "Editable", Content: "draft"}
	require.NoError(t, f.posts.Create(asPrincipal(guest), post))

	t.Run("author partial update", func(t *testing.T) {
		updated, err := f.posts.Update(asPrincipal(guest), &models.Post{ID: post.ID, Content: "final"})
		require.NoError(t, err)
		assert.Equal(t, "Editable", updated.Title)
		assert.Equal(t, "final", updated.Content)
		assert.False(t, updated.ModifiedOn.IsZero())
	})

	t.Run("admin non-author may update", func(t *testing.T) {
		_, err := f.posts.Update(asPrincipal(admin), &models.Post{ID: post.ID, Title: "Renamed by admin"})
		assert.NoError(t, err)
	})

	t.Run("non-author guest rejected", func(t *testing.T) {
		_, err := f.posts.Update(asPrincipal(other), &models.Post{ID: post.ID, Content: "hijack"})
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.posts.Update(asPrincipal(guest), &models.Post{ID: 999, Content: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rename onto existing title conflicts", func(t *testing.T) {
		other := &models.Post{Title: "Occupied title", Content: "x"}
		require.NoError(t, f.posts.Create(asPrincipal(guest), other))

		_, err := f.posts.Update(asPrincipal(guest), &models.Post{ID: post.ID, Title: "occupied TITLE"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("case-only rename of own title passes", func(t *testing.T) {
		updated, err := f.posts.Update(asPrincipal(admin), &models.Post{ID: post.ID, Title: "RENAMED BY ADMIN"})
		require.NoError(t, err)
		assert.Equal(t, "RENAMED BY ADMIN", updated.Title)
	})
}

func TestDeletePostCascades(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)

	post := &models.Post{Title: "Doomed", Content: "body"}
	require.NoError(t, f.posts.Create(asPrincipal(guest), post))
	_, err := f.comments.AddComment(post.ID, "vinny", "vinny@example.com", "one")
	require.NoError(t, err)
	_, err = f.comments.AddComment(post.ID, "vinny", "vinny@example.com", "two")
	require.NoError(t, err)

	deleted, err := f.posts.Delete(asPrincipal(guest), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.ID)

	remaining, err := f.store.ListByPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeletePostCascadeFailure(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)

	post := &models.Post{Title: "Half gone", Content: "body"}
	require.NoError(t, f.posts.Create(asPrincipal(guest), post))
	f.store.FailDeleteByPost = true

	deleted, err := f.posts.Delete(asPrincipal(guest), post.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependency)

	// The post is already gone; the error carries it so callers can report
	// the partial completion.
	var cascade *CascadeError
	require.ErrorAs(t, err, &cascade)
	assert.Equal(t, post.ID, cascade.Post.ID)
	assert.Equal(t, post.ID, deleted.ID)
	_, err = f.posts.Get(post.ID, PopulateFlat)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByAuthor(t *testing.T) {
	f := newPostFixture(t)
	guest := seedUser(t, f.users, "gwen", models.RoleGuest)
	other := seedUser(t, f.users, "olly", models.RoleGuest)
	admin := seedUser(t, f.users, "alice", models.RoleAdmin)

	for _, title := range []string{"Mine one", "Mine two"} {
		require.NoError(t, f.posts.Create(asPrincipal(guest), &models.Post{Title: title, Content: "x"}))
	}
	require.NoError(t, f.posts.Create(asPrincipal(other), &models.Post{Title: "Theirs", Content: "x"}))

	t.Run("stranger rejected", func(t *testing.T) {
		_, err := f.posts.DeleteByAuthor(asPrincipal(other), guest.ID)
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("self delete", func(t *testing.T) {
		deleted, err := f.posts.DeleteByAuthor(asPrincipal(guest), guest.ID)
		require.NoError(t, err)
		assert.Len(t, deleted, 2)
	})

	t.Run("admin deletes remaining", func(t *testing.T) {
		deleted, err := f.posts.DeleteByAuthor(asPrincipal(admin), other.ID)
		require.NoError(t, err)
		assert.Len(t, deleted, 1)
	})
}
