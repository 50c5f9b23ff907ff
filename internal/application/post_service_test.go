package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/apptest"
	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/notifier"
)

type postFixture struct {
	svc   *application.PostService
	users *apptest.UserStore
	posts *apptest.PostStore
	blobs *apptest.BlobRecorder
	hub   *notifier.Hub
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	clock := apptest.NewClock()
	users := apptest.NewUserStore(clock)
	posts := apptest.NewPostStore(clock)
	blobs := apptest.NewBlobRecorder()
	hub := notifier.NewHub(nil)
	t.Cleanup(hub.Shutdown)

	svc := application.NewPostService(posts, users, application.NewAssetManager(blobs, nil), hub, nil, nil, 2)
	return &postFixture{svc: svc, users: users, posts: posts, blobs: blobs, hub: hub}
}

func (f *postFixture) newUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "x", Name: "tester"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *postFixture) newPost(t *testing.T, actorID, title string) *application.PostView {
	t.Helper()
	view, err := f.svc.Create(context.Background(), actorID, application.PostInput{
		Title:    title,
		Content:  "some content",
		ImageURL: "images/" + title + ".png",
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return view
}

func TestCreatePost(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	ctx := context.Background()

	sub := f.hub.Subscribe()
	defer f.hub.Unsubscribe(sub)

	view, err := f.svc.Create(ctx, user.ID, application.PostInput{
		Title:    "hello",
		Content:  "first post",
		ImageURL: "images/hello.png",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.ID == "" {
		t.Fatal("view has no id")
	}
	if view.Creator.ID != user.ID || view.Creator.Name != user.Name {
		t.Errorf("creator = %+v, want id=%s name=%s", view.Creator, user.ID, user.Name)
	}
	if view.ImageURL != "images/hello.png" {
		t.Errorf("imageUrl = %q", view.ImageURL)
	}

	ids, _ := f.users.PostIDs(ctx, user.ID)
	if len(ids) != 1 || ids[0] != view.ID {
		t.Errorf("owned post ids = %v, want [%s]", ids, view.ID)
	}

	select {
	case evt := <-sub.C:
		if evt.Action != notifier.ActionCreate {
			t.Errorf("event action = %q, want create", evt.Action)
		}
	default:
		t.Error("no create event published")
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")

	_, err := f.svc.Create(context.Background(), user.ID, application.PostInput{
		Title:   "ab",
		Content: "x",
	})
	ve, ok := application.AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := make(map[string]bool)
	for _, v := range ve.Violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"title", "content", "imageUrl"} {
		if !fields[want] {
			t.Errorf("missing violation for %q (got %v)", want, ve.Violations)
		}
	}

	if n, _ := f.posts.Count(context.Background()); n != 0 {
		t.Errorf("post count = %d after failed create, want 0", n)
	}
}

func TestCreatePostUnknownActor(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.Create(context.Background(), "no-such-user", application.PostInput{
		Title:    "hello",
		Content:  "first post",
		ImageURL: "images/hello.png",
	})
	if !errors.Is(err, application.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestCreatePostRetriesOwnedSetWrite(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")

	f.users.AppendPostErr = errors.New("transient")
	view := f.newPost(t, user.ID, "retried")

	ids, _ := f.users.PostIDs(context.Background(), user.ID)
	if len(ids) != 1 || ids[0] != view.ID {
		t.Errorf("owned post ids = %v, want [%s]", ids, view.ID)
	}
}

func TestCreatePostNormalizesImagePath(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")

	view, err := f.svc.Create(context.Background(), user.ID, application.PostInput{
		Title:    "windows",
		Content:  "uploaded from windows",
		ImageURL: `images\windows.png`,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.ImageURL != "images/windows.png" {
		t.Errorf("imageUrl = %q, want images/windows.png", view.ImageURL)
	}
}

func TestListPagination(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	for i := 1; i <= 3; i++ {
		f.newPost(t, user.ID, fmt.Sprintf("post-%d", i))
	}
	ctx := context.Background()

	page1, total, err := f.svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page1) != 2 {
		t.Fatalf("page 1 has %d posts, want 2", len(page1))
	}
	// newest first
	if page1[0].Title != "post-3" || page1[1].Title != "post-2" {
		t.Errorf("page 1 = [%s %s], want [post-3 post-2]", page1[0].Title, page1[1].Title)
	}

	page2, _, err := f.svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "post-1" {
		t.Errorf("page 2 = %v, want [post-1]", page2)
	}

	// pages below 1 clamp to the first page
	clamped, _, err := f.svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if len(clamped) != 2 || clamped[0].Title != "post-3" {
		t.Errorf("page 0 did not clamp to page 1: %v", clamped)
	}
}

func TestGetPostNotFound(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.Get(context.Background(), "missing")
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdatePost(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	created := f.newPost(t, user.ID, "original")
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, user.ID, created.ID, application.PostInput{
		Title:    "renamed",
		Content:  "new content",
		ImageURL: "images/replacement.png",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" || updated.ImageURL != "images/replacement.png" {
		t.Errorf("updated view = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("UpdatedAt did not advance")
	}

	// old blob released once the row points at the new path
	if len(f.blobs.Deleted) != 1 || f.blobs.Deleted[0] != created.ImageURL {
		t.Errorf("deleted blobs = %v, want [%s]", f.blobs.Deleted, created.ImageURL)
	}
}

func TestUpdatePostKeepsUnchangedImage(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	created := f.newPost(t, user.ID, "original")

	_, err := f.svc.Update(context.Background(), user.ID, created.ID, application.PostInput{
		Title:    "renamed",
		Content:  "new content",
		ImageURL: created.ImageURL,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(f.blobs.Deleted) != 0 {
		t.Errorf("blob deleted on same-image update: %v", f.blobs.Deleted)
	}
}

func TestUpdatePostForbiddenForNonOwner(t *testing.T) {
	f := newPostFixture(t)
	owner := f.newUser(t, "owner@example.com")
	other := f.newUser(t, "other@example.com")
	created := f.newPost(t, owner.ID, "owned")

	_, err := f.svc.Update(context.Background(), other.ID, created.ID, application.PostInput{
		Title:    "hijack",
		Content:  "not yours",
		ImageURL: "images/x.png",
	})
	if !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// nothing changed
	got, gerr := f.svc.Get(context.Background(), created.ID)
	if gerr != nil {
		t.Fatalf("Get: %v", gerr)
	}
	if got.Title != "owned" {
		t.Errorf("title = %q after forbidden update", got.Title)
	}
}

func TestDeletePost(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	created := f.newPost(t, user.ID, "doomed")
	ctx := context.Background()

	sub := f.hub.Subscribe()
	defer f.hub.Unsubscribe(sub)

	view, err := f.svc.Delete(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if view.ID != created.ID {
		t.Errorf("deleted view id = %q, want %q", view.ID, created.ID)
	}

	if _, err := f.svc.Get(ctx, created.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if ids, _ := f.users.PostIDs(ctx, user.ID); len(ids) != 0 {
		t.Errorf("owned post ids = %v after delete, want empty", ids)
	}
	if len(f.blobs.Deleted) != 1 || f.blobs.Deleted[0] != created.ImageURL {
		t.Errorf("deleted blobs = %v, want [%s]", f.blobs.Deleted, created.ImageURL)
	}

	select {
	case evt := <-sub.C:
		if evt.Action != notifier.ActionDelete {
			t.Errorf("event action = %q, want delete", evt.Action)
		}
		if id, ok := evt.Post.(string); !ok || id != created.ID {
			t.Errorf("delete event carries %v, want bare post id", evt.Post)
		}
	default:
		t.Error("no delete event published")
	}
}

func TestDeletePostForbiddenForNonOwner(t *testing.T) {
	f := newPostFixture(t)
	owner := f.newUser(t, "owner@example.com")
	other := f.newUser(t, "other@example.com")
	created := f.newPost(t, owner.ID, "owned")

	_, err := f.svc.Delete(context.Background(), other.ID, created.ID)
	if !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, gerr := f.svc.Get(context.Background(), created.ID); gerr != nil {
		t.Errorf("post gone after forbidden delete: %v", gerr)
	}
}

func TestDeletePostSurvivesBlobFailure(t *testing.T) {
	f := newPostFixture(t)
	user := f.newUser(t, "a@example.com")
	created := f.newPost(t, user.ID, "doomed")

	f.blobs.DeleteErr = errors.New("bucket unavailable")
	if _, err := f.svc.Delete(context.Background(), user.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), created.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("post still present after delete with failing blob store")
	}
}
