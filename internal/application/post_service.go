package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
	"github.com/oksasatya/go-feed-service/internal/eventlog"
	"github.com/oksasatya/go-feed-service/internal/notifier"
)

// Creator is the projection of a post's owner exposed to clients.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostView is the externally visible shape of a post, decoupled from the
// storage row.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PostService coordinates the post row, the owning user's post set, the image
// asset and the change notification for every lifecycle operation. The post
// row is the primary write: once it commits, dependent steps (asset release,
// user-list bookkeeping) are best-effort and never overturn the result.
type PostService struct {
	Posts    repository.PostRepository
	Users    repository.UserRepository
	Assets   *AssetManager
	Notifier *notifier.Hub
	Events   *eventlog.Publisher
	Logger   *logrus.Logger
	PageSize int
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, assets *AssetManager, hub *notifier.Hub, events *eventlog.Publisher, logger *logrus.Logger, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &PostService{
		Posts:    posts,
		Users:    users,
		Assets:   assets,
		Notifier: hub,
		Events:   events,
		Logger:   logger,
		PageSize: pageSize,
	}
}

// List returns one page of posts ordered by creation time descending, plus
// the unfiltered total count. Pages below 1 are treated as page 1.
func (s *PostService) List(ctx context.Context, page int) ([]PostView, int, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.Posts.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	posts, err := s.Posts.ListPage(ctx, (page-1)*s.PageSize, s.PageSize)
	if err != nil {
		return nil, 0, err
	}

	creators := make(map[string]Creator, len(posts))
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		c, ok := creators[p.Creator]
		if !ok {
			c = s.creatorProjection(ctx, p.Creator)
			creators[p.Creator] = c
		}
		views = append(views, viewOf(&p, c))
	}
	return views, total, nil
}

// Create validates the input, inserts the post with the actor as creator,
// appends the post id to the actor's owned set and only then emits the create
// event.
func (s *PostService) Create(ctx context.Context, actorID string, in PostInput) (*PostView, error) {
	if err := ValidatePost(in.Title, in.Content, in.ImageURL, true); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, err
	}

	post := &entity.Post{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: s.Assets.Attach(in.ImageURL),
		Creator:  actorID,
	}
	if err := s.Posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	// The back-reference write must land before the event goes out. Retry
	// once on a detached context so caller cancellation between the two
	// writes does not strand the bookkeeping.
	if err := s.Users.AppendPost(ctx, actorID, post.ID); err != nil {
		detached := context.WithoutCancel(ctx)
		if err = s.Users.AppendPost(detached, actorID, post.ID); err != nil {
			return nil, fmt.Errorf("append post to user %s: %w", actorID, err)
		}
	}

	view := viewOf(post, Creator{ID: user.ID, Name: user.Name})
	s.publish(ctx, notifier.Event{Action: notifier.ActionCreate, Post: &view})
	return &view, nil
}

// Get returns a single post with its creator projection resolved.
func (s *PostService) Get(ctx context.Context, postID string) (*PostView, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("post %s", postID)
		}
		return nil, err
	}
	view := viewOf(post, s.creatorProjection(ctx, post.Creator))
	return &view, nil
}

// Update persists new field values for a post owned by the actor. The old
// image blob is released only after the row durably references the new path,
// so the stored imageUrl never points at a released asset.
func (s *PostService) Update(ctx context.Context, actorID, postID string, in PostInput) (*PostView, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("post %s", postID)
		}
		return nil, err
	}
	if post.Creator != actorID {
		return nil, forbiddenf("post %s belongs to another user", postID)
	}
	if err := ValidatePost(in.Title, in.Content, in.ImageURL, true); err != nil {
		return nil, err
	}

	oldPath := post.ImageURL
	post.Title = in.Title
	post.Content = in.Content
	post.ImageURL = s.Assets.Attach(in.ImageURL)

	if err := s.Posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("post %s", postID)
		}
		return nil, err
	}

	// Row committed; releasing the replaced blob is now safe. Detached so a
	// cancelled caller does not skip cleanup.
	s.Assets.Swap(context.WithoutCancel(ctx), oldPath, post.ImageURL)

	view := viewOf(post, s.creatorProjection(ctx, post.Creator))
	s.publish(ctx, notifier.Event{Action: notifier.ActionUpdate, Post: &view})
	return &view, nil
}

// Delete removes a post owned by the actor. Deleting the row is the point of
// no return; asset release and owned-set cleanup follow best-effort and their
// failure does not undo the deletion.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) (*PostView, error) {
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("post %s", postID)
		}
		return nil, err
	}
	if post.Creator != actorID {
		return nil, forbiddenf("post %s belongs to another user", postID)
	}

	view := viewOf(post, s.creatorProjection(ctx, post.Creator))

	if err := s.Posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// lost the race against a concurrent delete
			return nil, notFoundf("post %s", postID)
		}
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	s.Assets.Release(detached, post.ImageURL)
	if err := s.Users.RemovePost(detached, post.Creator, postID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"post_id": postID,
			"user_id": post.Creator,
		}).Warn("owned-post cleanup failed")
	}

	s.publish(ctx, notifier.Event{Action: notifier.ActionDelete, Post: postID})
	return &view, nil
}

// publish fans the event out to live subscribers and mirrors it to the
// archive queue. Neither path may fail or block the mutation.
func (s *PostService) publish(ctx context.Context, evt notifier.Event) {
	if s.Notifier != nil {
		s.Notifier.Publish(evt)
	}
	s.Events.Mirror(context.WithoutCancel(ctx), evt)
}

func (s *PostService) creatorProjection(ctx context.Context, userID string) Creator {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return Creator{ID: userID}
	}
	return Creator{ID: user.ID, Name: user.Name}
}

func viewOf(p *entity.Post, c Creator) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Creator:   c,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
