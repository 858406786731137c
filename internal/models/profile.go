package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile is the single profile document owned by a user. Experience and
// education entries are embedded; they have no existence outside the profile.
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         bson.ObjectID `bson:"user" json:"-"`
	Company        string        `bson:"company,omitempty" json:"company,omitempty"`
	Website        string        `bson:"website,omitempty" json:"website,omitempty"`
	Location       string        `bson:"location,omitempty" json:"location,omitempty"`
	Status         string        `bson:"status" json:"status"`
	Skills         []string      `bson:"skills" json:"skills"`
	Bio            string        `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string        `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         SocialLinks   `bson:"social,omitempty" json:"social,omitempty"`
	Experience     []Experience  `bson:"experience" json:"experience"`
	Education      []Education   `bson:"education" json:"education"`
	CreatedAt      time.Time     `bson:"date" json:"date"`

	// User carries the owning user's name and avatar, joined at read time.
	// It is never persisted on the profile document itself.
	User *UserRef `bson:"-" json:"user,omitempty"`
}

// SocialLinks groups the optional external profile links.
type SocialLinks struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Experience is an embedded work history entry. To is nil while Current is true.
type Experience struct {
	ID          bson.ObjectID `bson:"_id" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Company     string        `bson:"company" json:"company"`
	Location    string        `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time     `bson:"from" json:"from"`
	To          *time.Time    `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool          `bson:"current" json:"current"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
}

// Education is an embedded education entry with the same lifecycle as Experience.
type Education struct {
	ID           bson.ObjectID `bson:"_id" json:"_id"`
	School       string        `bson:"school" json:"school"`
	Degree       string        `bson:"degree" json:"degree"`
	FieldOfStudy string        `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time     `bson:"from" json:"from"`
	To           *time.Time    `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool          `bson:"current" json:"current"`
	Description  string        `bson:"description,omitempty" json:"description,omitempty"`
}
