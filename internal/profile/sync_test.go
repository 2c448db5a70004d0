package profile

import (
	"context"
	"errors"
	"testing"

	"alumnihub/internal/docstore"
	"alumnihub/internal/domain"
)

type stubStore struct {
	t *testing.T

	getFunc func(context.Context, string, string) (docstore.Document, bool, error)
	setFunc func(context.Context, string, string, map[string]any) error
}

func (s *stubStore) Get(ctx context.Context, collection, id string) (docstore.Document, bool, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, collection, id)
	}
	s.t.Fatalf("Get called unexpectedly")
	return docstore.Document{}, false, errors.New("unexpected call")
}

func (s *stubStore) Add(context.Context, string, map[string]any) (string, error) {
	s.t.Fatalf("Add called unexpectedly")
	return "", errors.New("unexpected call")
}

func (s *stubStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if s.setFunc != nil {
		return s.setFunc(ctx, collection, id, fields)
	}
	s.t.Fatalf("Set called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubStore) Update(context.Context, string, string, map[string]any) error {
	s.t.Fatalf("Update called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubStore) Delete(context.Context, string, string) error {
	s.t.Fatalf("Delete called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubStore) List(context.Context, string, string, docstore.Direction) ([]docstore.Document, error) {
	s.t.Fatalf("List called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubStore) Subscribe(context.Context, string, string, docstore.Direction) (docstore.Subscription, error) {
	s.t.Fatalf("Subscribe called unexpectedly")
	return nil, errors.New("unexpected call")
}

func TestFetchEmptyUserIDIsNoOp(t *testing.T) {
	s := NewSynchronizer(&stubStore{t: t}, nil)
	if err := s.Fetch(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchPopulatesProfile(t *testing.T) {
	store := &stubStore{
		t: t,
		getFunc: func(_ context.Context, collection, id string) (docstore.Document, bool, error) {
			if collection != "profiles" || id != "user-1" {
				t.Fatalf("unexpected read: %s/%s", collection, id)
			}
			return docstore.Document{ID: id, Fields: map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
				"role":  "admin",
				"about": "hi",
			}}, true, nil
		},
	}
	s := NewSynchronizer(store, nil)

	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := s.Profile()
	if p.UserID != "user-1" || p.Name != "Alice" || p.Email != "alice@example.com" || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestFetchSkipsWhenProfileLoaded(t *testing.T) {
	calls := 0
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			calls++
			return docstore.Document{ID: "user-1", Fields: map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
			}}, true, nil
		},
	}
	s := NewSynchronizer(store, nil)

	for i := 0; i < 3; i++ {
		if err := s.Fetch(context.Background(), "user-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single read, got %d", calls)
	}
}

func TestFetchMissingDocumentLeavesDefaults(t *testing.T) {
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			return docstore.Document{}, false, nil
		},
	}
	s := NewSynchronizer(store, nil)

	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := s.Profile()
	if p.UserID != "user-1" || p.Name != "" || p.Role != domain.RoleStudent {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestFetchMalformedDocumentLeavesDefaults(t *testing.T) {
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			return docstore.Document{ID: "user-1", Fields: map[string]any{"name": 42}}, true, nil
		},
	}
	s := NewSynchronizer(store, nil)

	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := s.Profile(); p.Name != "" || p.Role != domain.RoleStudent {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestSaveRequiresUserID(t *testing.T) {
	s := NewSynchronizer(&stubStore{t: t}, nil)

	err := s.Save(context.Background(), SaveInput{Name: "Alice"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveUpsertsFullDocument(t *testing.T) {
	var written map[string]any
	store := &stubStore{
		t: t,
		setFunc: func(_ context.Context, collection, id string, fields map[string]any) error {
			if collection != "profiles" || id != "user-1" {
				t.Fatalf("unexpected write: %s/%s", collection, id)
			}
			written = fields
			return nil
		},
	}
	s := NewSynchronizer(store, nil)

	err := s.Save(context.Background(), SaveInput{
		UserID:          "user-1",
		Name:            "Alice",
		About:           "hi",
		Email:           "alice@example.com",
		ProfileImageURL: "https://img.example/a.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written["name"] != "Alice" || written["role"] != "student" || written["profileImageUrl"] != "https://img.example/a.png" {
		t.Fatalf("unexpected document: %+v", written)
	}
	if p := s.Profile(); p.Name != "Alice" || p.Role != domain.RoleStudent {
		t.Fatalf("observable not updated: %+v", p)
	}
}

func TestSaveRoleChangeRequiresAdmin(t *testing.T) {
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			return docstore.Document{ID: "user-1", Fields: map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
				"role":  "student",
			}}, true, nil
		},
	}
	s := NewSynchronizer(store, nil)
	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.Save(context.Background(), SaveInput{
		UserID: "user-1",
		Name:   "Alice",
		Email:  "alice@example.com",
		Role:   domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSaveAdminMayChangeRole(t *testing.T) {
	var written map[string]any
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			return docstore.Document{ID: "user-1", Fields: map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
				"role":  "admin",
			}}, true, nil
		},
		setFunc: func(_ context.Context, _, _ string, fields map[string]any) error {
			written = fields
			return nil
		},
	}
	s := NewSynchronizer(store, nil)
	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.Save(context.Background(), SaveInput{
		UserID: "user-1",
		Name:   "Alice",
		Email:  "alice@example.com",
		Role:   domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written["role"] != "student" {
		t.Fatalf("unexpected document: %+v", written)
	}
}

func TestSaveKeepsCurrentRoleWhenUnspecified(t *testing.T) {
	var written map[string]any
	store := &stubStore{
		t: t,
		getFunc: func(context.Context, string, string) (docstore.Document, bool, error) {
			return docstore.Document{ID: "user-1", Fields: map[string]any{
				"name":  "Alice",
				"email": "alice@example.com",
				"role":  "admin",
			}}, true, nil
		},
		setFunc: func(_ context.Context, _, _ string, fields map[string]any) error {
			written = fields
			return nil
		},
	}
	s := NewSynchronizer(store, nil)
	if err := s.Fetch(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Save(context.Background(), SaveInput{UserID: "user-1", Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written["role"] != "admin" {
		t.Fatalf("unexpected document: %+v", written)
	}
}

func TestSaveRejectsUnknownRole(t *testing.T) {
	s := NewSynchronizer(&stubStore{t: t}, nil)

	err := s.Save(context.Background(), SaveInput{UserID: "user-1", Role: domain.Role("owner")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
