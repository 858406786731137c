package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"
	"devlink/internal/repository"
	"devlink/internal/validation"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileService handles developer profile operations.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
}

type UpsertProfileInput struct {
	Status         string
	Skills         string
	Company        string
	Website        string
	Location       string
	Bio            string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, postRepo repository.PostRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		postRepo:    postRepo,
	}
}

// Upsert creates the caller's profile or updates the supplied fields on the
// existing one. Status and skills are mandatory; everything else is optional.
func (s *ProfileService) Upsert(ctx context.Context, userID bson.ObjectID, in UpsertProfileInput) (*models.Profile, error) {
	var violations []string
	if strings.TrimSpace(in.Status) == "" {
		violations = append(violations, "Status is required")
	}
	if strings.TrimSpace(in.Skills) == "" {
		violations = append(violations, "Skills is required")
	}
	if len(violations) > 0 {
		return nil, models.NewValidationErrors(violations...)
	}

	fields := bson.M{
		"status": in.Status,
		"skills": validation.SplitSkills(in.Skills),
	}
	setIfPresent := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	setIfPresent("company", in.Company)
	setIfPresent("website", in.Website)
	setIfPresent("location", in.Location)
	setIfPresent("bio", in.Bio)
	setIfPresent("githubusername", in.GithubUsername)
	setIfPresent("social.youtube", in.Youtube)
	setIfPresent("social.twitter", in.Twitter)
	setIfPresent("social.facebook", in.Facebook)
	setIfPresent("social.linkedin", in.Linkedin)
	setIfPresent("social.instagram", in.Instagram)

	profile, err := s.profileRepo.Upsert(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	return s.attachUser(ctx, profile)
}

// GetByUserID returns the profile belonging to userID with the owner's name
// and avatar joined in.
func (s *ProfileService) GetByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachUser(ctx, profile)
}

// Me returns the calling user's own profile. There is no profile for this
// user until they create one, which callers surface as a 400 rather than 404.
func (s *ProfileService) Me(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewValidationError("There is no profile for this user")
		}
		return nil, err
	}
	return s.attachUser(ctx, profile)
}

// List returns all profiles with owner info joined in.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]bson.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	refs, err := s.userRepo.GetRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if ref, ok := refs[p.UserID]; ok {
			ref := ref
			p.User = &ref
		}
	}
	return profiles, nil
}

// DeleteAccount removes the user's posts, profile and account, in that
// order. Each step is independent; a missing profile does not abort the
// later steps.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	if _, err := s.postRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	observability.CascadeDeletes.WithLabelValues("posts").Inc()

	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	observability.CascadeDeletes.WithLabelValues("profile").Inc()

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	observability.CascadeDeletes.WithLabelValues("user").Inc()
	return nil
}

// AddExperience prepends a work history entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID bson.ObjectID, in ExperienceInput) (*models.Profile, error) {
	var violations []string
	if strings.TrimSpace(in.Title) == "" {
		violations = append(violations, "Title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		violations = append(violations, "Company is required")
	}
	if in.From.IsZero() {
		violations = append(violations, "From date is required")
	}
	if len(violations) > 0 {
		return nil, models.NewValidationErrors(violations...)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := models.Experience{
		ID:          bson.NewObjectID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	experience := append([]models.Experience{entry}, profile.Experience...)
	return s.profileRepo.SetExperience(ctx, userID, experience)
}

// DeleteExperience removes the entry with the given id. An id that matches
// nothing leaves the profile unchanged.
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, entryID bson.ObjectID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Experience {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return profile, nil
	}
	experience := append(profile.Experience[:idx:idx], profile.Experience[idx+1:]...)
	return s.profileRepo.SetExperience(ctx, userID, experience)
}

// AddEducation prepends an education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID bson.ObjectID, in EducationInput) (*models.Profile, error) {
	var violations []string
	if strings.TrimSpace(in.School) == "" {
		violations = append(violations, "School is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		violations = append(violations, "Degree is required")
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		violations = append(violations, "Field of study is required")
	}
	if in.From.IsZero() {
		violations = append(violations, "From date is required")
	}
	if len(violations) > 0 {
		return nil, models.NewValidationErrors(violations...)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := models.Education{
		ID:           bson.NewObjectID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	education := append([]models.Education{entry}, profile.Education...)
	return s.profileRepo.SetEducation(ctx, userID, education)
}

// DeleteEducation removes the entry with the given id. An id that matches
// nothing leaves the profile unchanged.
func (s *ProfileService) DeleteEducation(ctx context.Context, userID, entryID bson.ObjectID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Education {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return profile, nil
	}
	education := append(profile.Education[:idx:idx], profile.Education[idx+1:]...)
	return s.profileRepo.SetEducation(ctx, userID, education)
}

func (s *ProfileService) attachUser(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	refs, err := s.userRepo.GetRefs(ctx, []bson.ObjectID{profile.UserID})
	if err != nil {
		return nil, err
	}
	if ref, ok := refs[profile.UserID]; ok {
		profile.User = &ref
	}
	return profile, nil
}
