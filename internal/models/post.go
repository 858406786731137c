package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a free-text post. Name and Avatar are snapshots of the author
// captured at creation time so posts survive account deletion; they are
// intentionally not kept in sync with later profile edits.
type Post struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    bson.ObjectID `bson:"user" json:"user"`
	Text      string        `bson:"text" json:"text"`
	Name      string        `bson:"name" json:"name"`
	Avatar    string        `bson:"avatar" json:"avatar"`
	Likes     []Like        `bson:"likes" json:"likes"`
	Comments  []Comment     `bson:"comments" json:"comments"`
	CreatedAt time.Time     `bson:"date" json:"date"`
}

// Like records a single user's like. At most one per (post, user) pair.
type Like struct {
	ID     bson.ObjectID `bson:"_id" json:"_id"`
	UserID bson.ObjectID `bson:"user" json:"user"`
}

// Comment is embedded in its post; Name and Avatar are author snapshots,
// mirroring the post-level denormalization.
type Comment struct {
	ID        bson.ObjectID `bson:"_id" json:"_id"`
	UserID    bson.ObjectID `bson:"user" json:"user"`
	Text      string        `bson:"text" json:"text"`
	Name      string        `bson:"name" json:"name"`
	Avatar    string        `bson:"avatar" json:"avatar"`
	CreatedAt time.Time     `bson:"date" json:"date"`
}

// LikedBy reports whether userID already appears in the like list.
func (p *Post) LikedBy(userID bson.ObjectID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id, or nil.
func (p *Post) CommentByID(id bson.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
