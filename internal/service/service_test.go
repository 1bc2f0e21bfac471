package service

import (
	"Snapshare/internal/api/dto"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database/dbtest"
	"Snapshare/internal/pkg/metrics"
	"Snapshare/internal/pkg/security"
	"Snapshare/internal/repository"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

type services struct {
	db      *gorm.DB
	users   UserService
	posts   PostService
	actions PostActionService
	follows UserFollowService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := dbtest.New(t)
	postRepo := repository.NewPostRepository(db)
	return &services{
		db:      db,
		users:   NewUserService(repository.NewUserRepo(db)),
		posts:   NewPostService(postRepo),
		actions: NewPostActionService(repository.NewPostActionRepo(db), postRepo),
		follows: NewUserFollowService(repository.NewUserFollowRepo(db)),
	}
}

func (s *services) register(t *testing.T, name string) *dto.UserDTO {
	t.Helper()
	u, err := s.users.CreateUser(context.Background(), &dto.CreateUserDTO{
		Email:    name + "@example.com",
		Password: "password-" + name,
		Username: name,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (s *services) publish(t *testing.T, owner *dto.UserDTO) *dto.PostDTO {
	t.Helper()
	p, _, err := s.posts.CreatePost(context.Background(), &dto.CreatePostDTO{UserID: owner.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestCreateUserHashesPassword(t *testing.T) {
	s := newServices(t)
	u := s.register(t, "ana")

	if u.ID == 0 || u.CreatedAt == nil {
		t.Fatalf("expected id and created_at, got %+v", u)
	}
	if u.FullName != nil || u.Bio != nil {
		t.Fatalf("expected null optional fields, got %+v", u)
	}

	var stored model.User
	if err := s.db.First(&stored, u.ID).Error; err != nil {
		t.Fatalf("load stored user: %v", err)
	}
	if stored.Password == "password-ana" {
		t.Fatal("password stored in plaintext")
	}
	if err := security.CheckPasswordHash("password-ana", stored.Password); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	m, err := dto.ToMap(u)
	if err != nil {
		t.Fatalf("to map: %v", err)
	}
	if _, ok := m["password"]; ok {
		t.Fatal("serialized user exposes password")
	}
}

func TestCreateUserConflicts(t *testing.T) {
	s := newServices(t)
	s.register(t, "ana")
	ctx := context.Background()

	_, err := s.users.CreateUser(ctx, &dto.CreateUserDTO{Email: "ana@example.com", Password: "x", Username: "other"})
	if !errors.Is(err, ErrUserEmailExist) {
		t.Fatalf("expected ErrUserEmailExist, got %v", err)
	}
	_, err = s.users.CreateUser(ctx, &dto.CreateUserDTO{Email: "new@example.com", Password: "x", Username: "ana"})
	if !errors.Is(err, ErrUserUsernameExist) {
		t.Fatalf("expected ErrUserUsernameExist, got %v", err)
	}
	if Code(err) != Conflict {
		t.Fatalf("expected conflict code, got %d", Code(err))
	}
}

func TestCreateUserValidation(t *testing.T) {
	s := newServices(t)
	cases := []struct {
		name string
		in   *dto.CreateUserDTO
	}{
		{"missing email", &dto.CreateUserDTO{Password: "x", Username: "a"}},
		{"missing password", &dto.CreateUserDTO{Email: "a@example.com", Username: "a"}},
		{"long username", &dto.CreateUserDTO{Email: "a@example.com", Password: "x", Username: strings.Repeat("u", 51)}},
		{"long bio", &dto.CreateUserDTO{Email: "a@example.com", Password: "x", Username: "a", Bio: strPtr(strings.Repeat("b", 161))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.users.CreateUser(context.Background(), tc.in)
			if !errors.Is(err, ErrParamInvalid) {
				t.Fatalf("expected ErrParamInvalid, got %v", err)
			}
			if Code(err) != BadRequest {
				t.Fatalf("expected bad request code, got %d", Code(err))
			}
		})
	}
}

func TestUpdateUserInfo(t *testing.T) {
	s := newServices(t)
	ana := s.register(t, "ana")
	s.register(t, "bob")
	ctx := context.Background()

	got, err := s.users.UpdateUserInfo(ctx, ana.ID, &dto.UpdateUserDTO{Bio: strPtr("hello")})
	if err != nil {
		t.Fatalf("update bio: %v", err)
	}
	if got.Bio == nil || *got.Bio != "hello" || got.Username != "ana" {
		t.Fatalf("unexpected user after update: %+v", got)
	}
	before, _ := time.Parse(dto.TimeLayout, *ana.CreatedAt)
	after, _ := time.Parse(dto.TimeLayout, *got.CreatedAt)
	if !before.Equal(after) {
		t.Fatalf("created_at changed: %s -> %s", *ana.CreatedAt, *got.CreatedAt)
	}

	_, err = s.users.UpdateUserInfo(ctx, ana.ID, &dto.UpdateUserDTO{Username: strPtr("bob")})
	if !errors.Is(err, ErrUserUsernameExist) {
		t.Fatalf("expected ErrUserUsernameExist, got %v", err)
	}
	_, err = s.users.UpdateUserInfo(ctx, 404, &dto.UpdateUserDTO{Bio: strPtr("x")})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")
	bob := s.register(t, "bob")
	post := s.publish(t, ana)

	if _, err := s.actions.LikePost(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.follows.CreateUserFollow(ctx, bob.ID, ana.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := s.users.DeleteUser(ctx, ana.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.posts.GetPost(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected post to be gone, got %v", err)
	}
	following, err := s.follows.GetUserFollowing(ctx, bob.ID)
	if err != nil || len(following) != 0 {
		t.Fatalf("expected no follow edges, got %v %v", following, err)
	}
	if _, err = s.users.GetUserInfo(ctx, bob.ID); err != nil {
		t.Fatalf("bob should survive: %v", err)
	}
	if err = s.users.DeleteUser(ctx, ana.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestCreatePostWithMedia(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")
	w, h := 1080, 1350

	post, media, err := s.posts.CreatePost(ctx, &dto.CreatePostDTO{
		UserID:  ana.ID,
		Caption: strPtr("sunset"),
		Media: []*dto.CreateMediaDTO{
			{URL: "https://cdn.example.com/a.jpg", MediaType: "image", Width: &w, Height: &h},
			{URL: "https://cdn.example.com/b.mp4", MediaType: "video"},
		},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if len(media) != 2 || media[0].PostID != post.ID || media[1].Width != nil {
		t.Fatalf("unexpected media %+v", media)
	}
	if post.Location != nil {
		t.Fatalf("expected null location, got %v", *post.Location)
	}

	listed, err := s.posts.GetPostMedia(ctx, post.ID)
	if err != nil || len(listed) != 2 {
		t.Fatalf("list media: %v %v", listed, err)
	}
	if err = s.posts.DeleteMedia(ctx, listed[0].ID); err != nil {
		t.Fatalf("delete media: %v", err)
	}
	if err = s.posts.DeleteMedia(ctx, listed[0].ID); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestCreatePostRejects(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")

	_, _, err := s.posts.CreatePost(ctx, &dto.CreatePostDTO{UserID: 404})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	_, _, err = s.posts.CreatePost(ctx, &dto.CreatePostDTO{
		UserID: ana.ID,
		Media:  []*dto.CreateMediaDTO{{URL: "https://cdn.example.com/a.gif", MediaType: "gif"}},
	})
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid for media type, got %v", err)
	}
	posts, err := s.posts.GetUserPosts(ctx, ana.ID)
	if err != nil || len(posts) != 0 {
		t.Fatalf("rejected post must not be stored, got %v %v", posts, err)
	}
	if _, err = s.posts.AddMedia(ctx, 404, &dto.CreateMediaDTO{URL: "u", MediaType: "image"}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestDeletePostKeepsAuthor(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")
	first := s.publish(t, ana)
	second := s.publish(t, ana)

	if _, err := s.actions.CreateComment(ctx, ana.ID, first.ID, "mine"); err != nil {
		t.Fatalf("comment on own post: %v", err)
	}
	if err := s.posts.DeletePost(ctx, first.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := s.users.GetUserInfo(ctx, ana.ID); err != nil {
		t.Fatalf("author should survive: %v", err)
	}
	posts, err := s.posts.GetUserPosts(ctx, ana.ID)
	if err != nil || len(posts) != 1 || posts[0].ID != second.ID {
		t.Fatalf("expected only second post, got %v %v", posts, err)
	}
	if err = s.posts.DeletePost(ctx, first.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdatePost(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	post := s.publish(t, s.register(t, "ana"))

	got, err := s.posts.UpdatePost(ctx, post.ID, &dto.UpdatePostDTO{Location: strPtr("Lisbon")})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if got.Location == nil || *got.Location != "Lisbon" || got.Caption != nil {
		t.Fatalf("unexpected post %+v", got)
	}
	_, err = s.posts.UpdatePost(ctx, post.ID, &dto.UpdatePostDTO{Location: strPtr(strings.Repeat("l", 121))})
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid, got %v", err)
	}
}

func TestLikePost(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")
	bob := s.register(t, "bob")
	post := s.publish(t, ana)

	like, err := s.actions.LikePost(ctx, bob.ID, post.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if like.PostID != post.ID || like.UserID != bob.ID || like.CreatedAt == nil {
		t.Fatalf("unexpected like %+v", like)
	}
	if _, err = s.actions.LikePost(ctx, bob.ID, post.ID); !errors.Is(err, ErrActionDuplicate) {
		t.Fatalf("expected ErrActionDuplicate, got %v", err)
	}
	if _, err = s.actions.LikePost(ctx, bob.ID, 404); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err = s.actions.LikePost(ctx, 404, post.ID); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound for unknown user, got %v", err)
	}

	state, err := s.actions.GetPostActionState(ctx, bob.ID, post.ID)
	if err != nil {
		t.Fatalf("action state: %v", err)
	}
	if state.LikeCount != 1 || state.CommentCount != 0 || !state.IsLiked {
		t.Fatalf("unexpected state %+v", state)
	}
	anon, err := s.actions.GetPostActionState(ctx, 0, post.ID)
	if err != nil || anon.IsLiked || anon.LikeCount != 1 {
		t.Fatalf("unexpected anonymous state %+v %v", anon, err)
	}
	if _, err = s.actions.GetPostActionState(ctx, bob.ID, 404); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	liked, err := s.actions.IsLiked(ctx, bob.ID, post.ID)
	if err != nil || !liked {
		t.Fatalf("expected liked, got %v %v", liked, err)
	}
	n, err := s.actions.GetPostLikeCount(ctx, post.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 like, got %d %v", n, err)
	}

	if err = s.actions.CancelLikePost(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if err = s.actions.CancelLikePost(ctx, bob.ID, post.ID); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("expected ErrLikeNotFound, got %v", err)
	}
	likes, err := s.actions.GetPostLikes(ctx, post.ID)
	if err != nil || len(likes) != 0 {
		t.Fatalf("expected no likes, got %v %v", likes, err)
	}
}

func TestComments(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ana := s.register(t, "ana")
	post := s.publish(t, ana)

	first, err := s.actions.CreateComment(ctx, ana.ID, post.ID, "first")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err = s.actions.CreateComment(ctx, ana.ID, post.ID, "second"); err != nil {
		t.Fatalf("second comment: %v", err)
	}
	if _, err = s.actions.CreateComment(ctx, ana.ID, post.ID, ""); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("expected ErrParamInvalid for empty text, got %v", err)
	}
	if _, err = s.actions.CreateComment(ctx, ana.ID, 404, "lost"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	comments, err := s.actions.GetPostComments(ctx, post.ID)
	if err != nil || len(comments) != 2 || comments[0].Text != "first" {
		t.Fatalf("unexpected comments %v %v", comments, err)
	}
	got, err := s.actions.GetComment(ctx, first.ID)
	if err != nil || got.UserID != ana.ID {
		t.Fatalf("get comment: %+v %v", got, err)
	}

	if err = s.actions.DeleteComment(ctx, first.ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	if _, err = s.actions.GetComment(ctx, first.ID); !errors.Is(err, ErrPostCommentNotFound) {
		t.Fatalf("expected ErrPostCommentNotFound, got %v", err)
	}
	n, err := s.actions.GetPostCommentCount(ctx, post.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 comment, got %d %v", n, err)
	}
}

func TestFollow(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "ana")
	b := s.register(t, "bob")

	follow, err := s.follows.CreateUserFollow(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if follow.FollowerID != a.ID || follow.FollowingID != b.ID {
		t.Fatalf("unexpected follow %+v", follow)
	}

	cases := []struct {
		name        string
		follower    uint64
		following   uint64
		expectedErr error
	}{
		{"duplicate", a.ID, b.ID, ErrUserFollowExist},
		{"self", a.ID, a.ID, ErrUserFollowSelf},
		{"unknown user", a.ID, 404, ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.follows.CreateUserFollow(ctx, tc.follower, tc.following)
			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}
		})
	}

	selfRejected := testutil.ToFloat64(metrics.ConstraintRejections.WithLabelValues("check"))
	if selfRejected < 1 {
		t.Fatalf("expected self follow to be counted as a check rejection, got %v", selfRejected)
	}

	if _, err = s.follows.CreateUserFollow(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("reverse follow must be allowed: %v", err)
	}

	followers, err := s.follows.GetUserFollowers(ctx, b.ID)
	if err != nil || len(followers) != 1 || followers[0].FollowerID != a.ID {
		t.Fatalf("unexpected followers %v %v", followers, err)
	}
	n, err := s.follows.GetUserFollowingCount(ctx, a.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected following count 1, got %d %v", n, err)
	}
	ok, err := s.follows.GetSomeoneIsFollowing(ctx, a.ID, b.ID)
	if err != nil || !ok {
		t.Fatalf("expected a to follow b, got %v %v", ok, err)
	}

	if err = s.follows.DeleteUserFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err = s.follows.DeleteUserFollow(ctx, a.ID, b.ID); !errors.Is(err, ErrUserFollowNotFound) {
		t.Fatalf("expected ErrUserFollowNotFound, got %v", err)
	}
	n, err = s.follows.GetUserFollowerCount(ctx, a.ID)
	if err != nil || n != 1 {
		t.Fatalf("reverse edge should remain, got %d %v", n, err)
	}
}

func TestCodeUnwraps(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), ErrPostNotFound)
	if Code(wrapped) != NotFound {
		t.Fatalf("expected not found, got %d", Code(wrapped))
	}
	if Code(errors.New("boom")) != InternalServerError {
		t.Fatal("unknown errors map to internal error")
	}
}
