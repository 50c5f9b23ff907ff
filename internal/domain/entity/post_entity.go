package entity

import (
	"time"
)

// Post is a single feed entry. Creator is fixed at creation time and is the
// only identity allowed to mutate or delete the post. ImageURL is a relative,
// separator-normalized path into the blob store and stays resolvable for the
// lifetime of the post.
type Post struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	Creator   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
