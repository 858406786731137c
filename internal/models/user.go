// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account in DevLink.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"`
	Avatar    string        `bson:"avatar" json:"avatar"`
	CreatedAt time.Time     `bson:"date" json:"date"`
}

// UserRef is the read-time join of the fields a profile or post exposes
// about its owning user.
type UserRef struct {
	ID     bson.ObjectID `bson:"_id" json:"_id"`
	Name   string        `bson:"name" json:"name"`
	Avatar string        `bson:"avatar" json:"avatar"`
}
