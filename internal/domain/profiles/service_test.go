package profiles

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	byID map[string]Profile

	// When set, every lookup fails with it, simulating a storage outage.
	lookupErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	if r.lookupErr != nil {
		return Profile{}, r.lookupErr
	}
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetByAuthID(ctx context.Context, authID string) (Profile, error) {
	if r.lookupErr != nil {
		return Profile{}, r.lookupErr
	}
	for _, p := range r.byID {
		if p.AuthID == authID {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	if r.lookupErr != nil {
		return Profile{}, r.lookupErr
	}
	for _, p := range r.byID {
		if NormalizeEmail(p.Email) == email {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *testRepo) GetByNickname(ctx context.Context, nickname string) (Profile, error) {
	if r.lookupErr != nil {
		return Profile{}, r.lookupErr
	}
	for _, p := range r.byID {
		if NormalizeNickname(p.Nickname) == nickname {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func createKim(t *testing.T, svc *Service) Profile {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateInput{
		AuthID:             "auth-1",
		Nickname:           "Kimmy",
		Email:              "Kim@Example.com",
		SecurityQuestionID: 2,
		SecurityAnswer:     "Mandu",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

func TestCreate_NormalizesEmail(t *testing.T) {
	svc := NewService(newTestRepo())

	p := createKim(t, svc)
	if p.Email != "kim@example.com" {
		t.Fatalf("expected lower-cased email, got %q", p.Email)
	}
	if p.Provider != ProviderEmail {
		t.Fatalf("expected email provider default, got %q", p.Provider)
	}
}

func TestCreate_DuplicateDetection(t *testing.T) {
	svc := NewService(newTestRepo())
	createKim(t, svc)

	// Same email, different case.
	_, err := svc.Create(context.Background(), CreateInput{
		AuthID: "auth-2", Nickname: "other", Email: "KIM@example.com",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// Same nickname modulo case and padding.
	_, err = svc.Create(context.Background(), CreateInput{
		AuthID: "auth-2", Nickname: " kimmy ", Email: "new@example.com",
	})
	if !errors.Is(err, ErrDuplicateNickname) {
		t.Fatalf("expected ErrDuplicateNickname, got %v", err)
	}
}

func TestUpdate_PartialAndNicknameConflict(t *testing.T) {
	svc := NewService(newTestRepo())
	createKim(t, svc)
	if _, err := svc.Create(context.Background(), CreateInput{
		AuthID: "auth-2", Nickname: "taken", Email: "other@example.com",
	}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	bio := "dog person"
	p, err := svc.Update(context.Background(), "auth-1", UpdateInput{Bio: &bio})
	if err != nil {
		t.Fatalf("update bio: %v", err)
	}
	if p.Bio != "dog person" || p.Nickname != "Kimmy" {
		t.Fatalf("partial update touched other fields: %+v", p)
	}

	taken := "Taken"
	if _, err := svc.Update(context.Background(), "auth-1", UpdateInput{Nickname: &taken}); !errors.Is(err, ErrDuplicateNickname) {
		t.Fatalf("expected ErrDuplicateNickname, got %v", err)
	}

	// Re-casing your own nickname is not a conflict.
	own := "KIMMY"
	p, err = svc.Update(context.Background(), "auth-1", UpdateInput{Nickname: &own})
	if err != nil {
		t.Fatalf("re-case own nickname: %v", err)
	}
	if p.Nickname != "KIMMY" {
		t.Fatalf("expected re-cased nickname, got %q", p.Nickname)
	}

	empty := " "
	if _, err := svc.Update(context.Background(), "auth-1", UpdateInput{Nickname: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank nickname, got %v", err)
	}
}

func TestVerifySecurityQuestion(t *testing.T) {
	svc := NewService(newTestRepo())
	createKim(t, svc)

	email, err := svc.VerifySecurityQuestion(context.Background(), "kimmy", 2, "mandu")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "kim@example.com" {
		t.Fatalf("expected stored email, got %q", email)
	}

	// Every mismatch collapses into the same error.
	cases := []struct {
		nickname string
		question int
		answer   string
	}{
		{"kimmy", 2, "wrong"},
		{"kimmy", 3, "mandu"},
		{"nobody", 2, "mandu"},
		{"kimmy", 2, ""},
	}
	for _, c := range cases {
		if _, err := svc.VerifySecurityQuestion(context.Background(), c.nickname, c.question, c.answer); !errors.Is(err, ErrVerifyFailed) {
			t.Fatalf("case %+v: expected ErrVerifyFailed, got %v", c, err)
		}
	}
}

func TestEmailAndNicknameTaken(t *testing.T) {
	svc := NewService(newTestRepo())
	createKim(t, svc)

	if taken, _ := svc.EmailTaken(context.Background(), "KIM@EXAMPLE.COM"); !taken {
		t.Fatal("expected email taken regardless of case")
	}
	if taken, _ := svc.EmailTaken(context.Background(), "free@example.com"); taken {
		t.Fatal("expected free email to be available")
	}
	if taken, _ := svc.NicknameTaken(context.Background(), " KIMMY "); !taken {
		t.Fatal("expected nickname taken regardless of case and padding")
	}
}

func TestTakenProbes_SurfaceStorageFailures(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	createKim(t, svc)

	repo.lookupErr = errors.New("connection refused")

	// An outage must not read as availability.
	if taken, err := svc.EmailTaken(context.Background(), "kim@example.com"); err == nil {
		t.Fatalf("expected storage error from EmailTaken, got taken=%v", taken)
	}
	if taken, err := svc.NicknameTaken(context.Background(), "kimmy"); err == nil {
		t.Fatalf("expected storage error from NicknameTaken, got taken=%v", taken)
	}
}
