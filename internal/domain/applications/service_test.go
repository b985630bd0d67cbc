package applications

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Application
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Application{}}
}

func (r *testRepo) Create(ctx context.Context, a Application) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Application) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Application, error) {
	a, ok := r.byID[id]
	if !ok {
		return Application{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) GetByPostAndApplicant(ctx context.Context, postID, applicantID string) (Application, error) {
	for _, a := range r.byID {
		if a.PostID == postID && a.ApplicantID == applicantID {
			return a, nil
		}
	}
	return Application{}, errRepoNotFound
}

func (r *testRepo) ListByPost(ctx context.Context, postID string) ([]Detail, error) {
	out := make([]Detail, 0)
	for _, a := range r.byID {
		if a.PostID == postID {
			out = append(out, Detail{Application: a})
		}
	}
	return out, nil
}

func (r *testRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Detail, error) {
	out := make([]Detail, 0)
	for _, a := range r.byID {
		if a.ApplicantID == applicantID {
			out = append(out, Detail{Application: a})
		}
	}
	return out, nil
}

// testCatalog fakes the posts side: a fixed author per post plus a record
// of cascade calls.
type testCatalog struct {
	authors         map[string]string
	began           []string
	beginTransportE error
}

func (c *testCatalog) AuthorOf(ctx context.Context, postID string) (string, error) {
	author, ok := c.authors[postID]
	if !ok {
		return "", errRepoNotFound
	}
	return author, nil
}

func (c *testCatalog) BeginTransport(ctx context.Context, postID string) error {
	c.began = append(c.began, postID)
	return c.beginTransportE
}

func newTestService() (*Service, *testRepo, *testCatalog) {
	repo := newTestRepo()
	catalog := &testCatalog{authors: map[string]string{"post-1": "author-1"}}
	return NewService(repo, catalog, nil), repo, catalog
}

func TestApply_OwnPostRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Apply(context.Background(), "post-1", "author-1", "my own dog")
	if !errors.Is(err, ErrOwnPost) {
		t.Fatalf("expected ErrOwnPost, got %v", err)
	}
}

func TestApply_UnknownPost(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Apply(context.Background(), "missing", "vol-1", "hi")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestApply_OncePerPostAndApplicant(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "first")
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if a.Status != StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}

	_, err = svc.Apply(context.Background(), "post-1", "vol-1", "second")
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	// A different volunteer is fine.
	if _, err := svc.Apply(context.Background(), "post-1", "vol-2", "me too"); err != nil {
		t.Fatalf("apply by second volunteer: %v", err)
	}
}

func TestSetStatus_RejectsInvalidTargets(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "hi")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, target := range []Status{StatusPending, "bogus", ""} {
		_, err := svc.SetStatus(context.Background(), a.ID, target, nil, "author-1")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("target %q: expected ErrInvalidInput, got %v", target, err)
		}
	}
}

func TestSetStatus_AuthorOnly(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "hi")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Neither the applicant nor a stranger may move it.
	for _, caller := range []string{"vol-1", "stranger"} {
		_, err := svc.SetStatus(context.Background(), a.ID, StatusAccepted, nil, caller)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("caller %q: expected ErrForbidden, got %v", caller, err)
		}
	}
}

func TestSetStatus_AcceptCascadesToPost(t *testing.T) {
	svc, _, catalog := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "hi")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := svc.SetStatus(context.Background(), a.ID, StatusAccepted, nil, "author-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", got.Status)
	}
	if len(catalog.began) != 1 || catalog.began[0] != "post-1" {
		t.Fatalf("expected one cascade to post-1, got %v", catalog.began)
	}
}

func TestSetStatus_RejectDoesNotCascade(t *testing.T) {
	svc, _, catalog := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "hi")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), a.ID, StatusRejected, nil, "author-1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if len(catalog.began) != 0 {
		t.Fatalf("expected no cascade on reject, got %v", catalog.began)
	}
}

func TestSetStatus_CascadeFailureDoesNotFailAccept(t *testing.T) {
	svc, repo, catalog := newTestService()
	catalog.beginTransportE = errors.New("db down")

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "hi")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := svc.SetStatus(context.Background(), a.ID, StatusAccepted, nil, "author-1")
	if err != nil {
		t.Fatalf("accept should survive cascade failure, got %v", err)
	}
	if got.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", got.Status)
	}
	if stored := repo.byID[a.ID]; stored.Status != StatusAccepted {
		t.Fatalf("expected accepted persisted, got %s", stored.Status)
	}
}

func TestSetStatus_MessageOverwriteIsOptional(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Apply(context.Background(), "post-1", "vol-1", "original")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := svc.SetStatus(context.Background(), a.ID, StatusRejected, nil, "author-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Message != "original" {
		t.Fatalf("nil message must keep the original, got %q", got.Message)
	}

	note := "thanks anyway"
	got, err = svc.SetStatus(context.Background(), a.ID, StatusCompleted, &note, "author-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Message != note {
		t.Fatalf("expected message overwritten, got %q", got.Message)
	}
}
