// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devlink/internal/database"
	"devlink/internal/gravatar"
	"devlink/internal/models"
	"devlink/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var statuses = []string{
	"Developer", "Junior Developer", "Senior Developer", "Manager",
	"Student or Learning", "Instructor", "Intern",
}

var skillPool = []string{
	"JavaScript", "Go", "Python", "TypeScript", "React", "Node.js",
	"PostgreSQL", "MongoDB", "Redis", "Docker", "Kubernetes", "GraphQL",
	"Rust", "Java", "C#", "HTML", "CSS",
}

// Seeder populates the database through the same repositories the API uses.
type Seeder struct {
	db          *mongo.Database
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
}

func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		postRepo:    repository.NewPostRepository(db),
	}
}

// ClearAll drops every seeded collection.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, name := range []string{database.PostsCollection, database.ProfilesCollection, database.UsersCollection} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	log.Println("Cleared users, profiles and posts")
	return nil
}

// Run creates users, a profile for most of them, and a feed of posts with
// likes and comments. Every seeded account has the password "password".
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		email := strings.ToLower(fmt.Sprintf("%s.%s%d@%s",
			gofakeit.FirstName(), gofakeit.LastName(), i, gofakeit.DomainName()))
		user := &models.User{
			Name:      gofakeit.Name(),
			Email:     email,
			Password:  string(hash),
			Avatar:    gravatar.URL(email),
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	profiles := 0
	for _, user := range users {
		// Roughly one in five users never filled in a profile.
		if rand.Intn(5) == 0 {
			continue
		}
		fields := bson.M{
			"status":   statuses[rand.Intn(len(statuses))],
			"skills":   pickSkills(),
			"company":  gofakeit.Company(),
			"location": fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
			"bio":      gofakeit.HipsterSentence(10),
		}
		if rand.Intn(2) == 0 {
			fields["githubusername"] = gofakeit.Username()
		}
		if _, err := s.profileRepo.Upsert(ctx, user.ID, fields); err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
		if err := s.seedHistory(ctx, user.ID); err != nil {
			return err
		}
		profiles++
	}
	log.Printf("Seeded %d profiles", profiles)

	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			UserID:    author.ID,
			Text:      gofakeit.HipsterParagraph(1, rand.Intn(3)+1, 12, " "),
			Name:      author.Name,
			Avatar:    author.Avatar,
			Likes:     seedLikes(users),
			Comments:  seedComments(users),
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if _, err := s.postRepo.Create(ctx, post); err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
	}
	log.Printf("Seeded %d posts", opts.NumPosts)
	return nil
}

func (s *Seeder) seedHistory(ctx context.Context, userID bson.ObjectID) error {
	experience := make([]models.Experience, 0, 2)
	for i := 0; i < rand.Intn(3); i++ {
		from := time.Now().AddDate(-rand.Intn(8)-1, 0, 0)
		to := from.AddDate(rand.Intn(3)+1, 0, 0)
		experience = append(experience, models.Experience{
			ID:          bson.NewObjectID(),
			Title:       gofakeit.JobTitle(),
			Company:     gofakeit.Company(),
			Location:    gofakeit.City(),
			From:        from,
			To:          &to,
			Description: gofakeit.Sentence(8),
		})
	}
	if len(experience) > 0 {
		if _, err := s.profileRepo.SetExperience(ctx, userID, experience); err != nil {
			return fmt.Errorf("seed experience: %w", err)
		}
	}

	if rand.Intn(2) == 0 {
		from := time.Now().AddDate(-rand.Intn(12)-4, 0, 0)
		to := from.AddDate(4, 0, 0)
		education := []models.Education{{
			ID:           bson.NewObjectID(),
			School:       fmt.Sprintf("%s University", gofakeit.City()),
			Degree:       "BSc",
			FieldOfStudy: "Computer Science",
			From:         from,
			To:           &to,
		}}
		if _, err := s.profileRepo.SetEducation(ctx, userID, education); err != nil {
			return fmt.Errorf("seed education: %w", err)
		}
	}
	return nil
}

func pickSkills() []string {
	n := rand.Intn(4) + 2
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		skill := skillPool[rand.Intn(len(skillPool))]
		if !seen[skill] {
			seen[skill] = true
			picked = append(picked, skill)
		}
	}
	return picked
}

func seedLikes(users []*models.User) []models.Like {
	likes := []models.Like{}
	seen := map[bson.ObjectID]bool{}
	for i := 0; i < rand.Intn(6); i++ {
		u := users[rand.Intn(len(users))]
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		likes = append(likes, models.Like{ID: bson.NewObjectID(), UserID: u.ID})
	}
	return likes
}

func seedComments(users []*models.User) []models.Comment {
	comments := []models.Comment{}
	for i := 0; i < rand.Intn(4); i++ {
		u := users[rand.Intn(len(users))]
		comments = append(comments, models.Comment{
			ID:        bson.NewObjectID(),
			UserID:    u.ID,
			Text:      gofakeit.HipsterSentence(12),
			Name:      u.Name,
			Avatar:    u.Avatar,
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		})
	}
	return comments
}
