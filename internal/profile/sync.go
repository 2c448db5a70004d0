// Package profile keeps the signed-in user's profile document and its
// observable in-memory copy in sync.
package profile

import (
	"context"
	"log/slog"

	"alumnihub/internal/docstore"
	"alumnihub/internal/domain"
	"alumnihub/internal/watch"
)

const collection = "profiles"

// Synchronizer owns the observable UserProfile. Nothing else mutates it.
type Synchronizer struct {
	store   docstore.Store
	logger  *slog.Logger
	profile *watch.Value[domain.UserProfile]
}

func NewSynchronizer(store docstore.Store, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		store:   store,
		logger:  logger,
		profile: watch.NewValue(domain.DefaultProfile("")),
	}
}

func (s *Synchronizer) Profile() domain.UserProfile { return s.profile.Get() }

func (s *Synchronizer) Watch(ctx context.Context) <-chan domain.UserProfile {
	return s.profile.Watch(ctx)
}

// Fetch loads the profile document for userID into the observable. An empty
// userID is a no-op. A profile that already has a name and email is not
// re-read. A missing document leaves the in-memory default in place without
// writing anything.
func (s *Synchronizer) Fetch(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	cur := s.profile.Get()
	if cur.UserID == userID && cur.Name != "" && cur.Email != "" {
		return nil
	}

	doc, ok, err := s.store.Get(ctx, collection, userID)
	if err != nil {
		return err
	}
	if !ok {
		s.profile.Set(domain.DefaultProfile(userID))
		return nil
	}

	p, err := decodeProfile(userID, doc.Fields)
	if err != nil {
		s.logger.Warn("profile document malformed", "user_id", userID, "err", err)
		s.profile.Set(domain.DefaultProfile(userID))
		return nil
	}
	s.profile.Set(p)
	return nil
}

// SaveInput carries the editable profile fields. An empty Role keeps the
// current role, or the default for a first save.
type SaveInput struct {
	UserID          string
	Name            string
	About           string
	Email           string
	ProfileImageURL string
	Role            domain.Role
}

// Save upserts the full profile document and updates the observable. Only
// admins may change a role; any other field is freely editable by the owner.
func (s *Synchronizer) Save(ctx context.Context, in SaveInput) error {
	if in.UserID == "" {
		return &domain.ValidationError{Fields: map[string]string{"userId": "required"}}
	}
	if in.Role != "" && !domain.ValidRole(in.Role) {
		return &domain.ValidationError{Fields: map[string]string{"role": "unknown role"}}
	}

	cur := s.profile.Get()
	curRole := cur.Role
	if cur.UserID != in.UserID || curRole == "" {
		curRole = domain.RoleStudent
	}

	role := in.Role
	if role == "" {
		role = curRole
	}
	if role != curRole && curRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	p := domain.UserProfile{
		UserID:          in.UserID,
		Name:            in.Name,
		About:           in.About,
		Email:           in.Email,
		Role:            role,
		ProfileImageURL: in.ProfileImageURL,
	}
	if err := s.store.Set(ctx, collection, in.UserID, encodeProfile(p)); err != nil {
		return err
	}
	s.profile.Set(p)
	return nil
}

func encodeProfile(p domain.UserProfile) map[string]any {
	return map[string]any{
		"userId":          p.UserID,
		"name":            p.Name,
		"about":           p.About,
		"email":           p.Email,
		"role":            string(p.Role),
		"profileImageUrl": p.ProfileImageURL,
	}
}

func decodeProfile(userID string, fields map[string]any) (domain.UserProfile, error) {
	p := domain.DefaultProfile(userID)
	var err error
	if p.Name, err = docstore.String(fields, "name"); err != nil {
		return domain.UserProfile{}, err
	}
	if p.About, err = docstore.String(fields, "about"); err != nil {
		return domain.UserProfile{}, err
	}
	if p.Email, err = docstore.String(fields, "email"); err != nil {
		return domain.UserProfile{}, err
	}
	if p.ProfileImageURL, err = docstore.String(fields, "profileImageUrl"); err != nil {
		return domain.UserProfile{}, err
	}
	role, err := docstore.String(fields, "role")
	if err != nil {
		return domain.UserProfile{}, err
	}
	if role != "" {
		p.Role = domain.Role(role)
	}
	return p, nil
}
