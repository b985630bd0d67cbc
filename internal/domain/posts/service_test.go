package posts

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Post
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Post{}}
}

func (r *testRepo) Create(ctx context.Context, p Post) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Post) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Summary, int, error) {
	return nil, 0, nil
}

func (r *testRepo) ListByAuthor(ctx context.Context, authorID string, status Status, page, limit int) ([]Summary, int, error) {
	return nil, 0, nil
}

func (r *testRepo) RankByDistance(ctx context.Context, lat, lng float64, page, limit int) ([]Ranked, error) {
	return nil, nil
}

func (r *testRepo) BeginTransport(ctx context.Context, id string, at time.Time) error {
	p, ok := r.byID[id]
	if !ok || p.Status != StatusActive {
		return nil
	}
	p.Status = StatusInProgress
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		Title:            "Seoul to Busan",
		Description:      "needs a ride",
		DepartureAddress: "Seoul",
		ArrivalAddress:   "Busan",
		DogName:          "Mandu",
		DogSize:          "medium",
		DogBreed:         "mixed",
		Deadline:         time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := map[string]func(*CreateInput){
		"title":             func(in *CreateInput) { in.Title = " " },
		"description":       func(in *CreateInput) { in.Description = "" },
		"departure address": func(in *CreateInput) { in.DepartureAddress = "" },
		"arrival address":   func(in *CreateInput) { in.ArrivalAddress = "" },
		"dog name":          func(in *CreateInput) { in.DogName = "" },
		"dog breed":         func(in *CreateInput) { in.DogBreed = "" },
		"dog size":          func(in *CreateInput) { in.DogSize = "gigantic" },
		"deadline":          func(in *CreateInput) { in.Deadline = time.Time{} },
	}

	for name, mutate := range cases {
		in := validCreateInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), "author-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("missing %s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreate_AlwaysStartsActive(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "author-1", validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != StatusActive {
		t.Fatalf("expected active, got %s", p.Status)
	}
	if p.ID == "" || p.AuthorID != "author-1" {
		t.Fatalf("unexpected post identity: %+v", p)
	}
}

func TestMarkComplete_AuthorOnlyAndOnce(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "author-1", validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.MarkComplete(context.Background(), p.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.MarkComplete(context.Background(), "missing", "author-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	done, err := svc.MarkComplete(context.Background(), p.ID, "author-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	if _, err := svc.MarkComplete(context.Background(), p.ID, "author-1"); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestMarkComplete_FromInProgress(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "author-1", validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.BeginTransport(context.Background(), p.ID); err != nil {
		t.Fatalf("begin transport: %v", err)
	}

	done, err := svc.MarkComplete(context.Background(), p.ID, "author-1")
	if err != nil {
		t.Fatalf("complete from in_progress: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
}

func TestBeginTransport_OnlyFlipsActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "author-1", validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.BeginTransport(context.Background(), p.ID); err != nil {
		t.Fatalf("begin transport: %v", err)
	}
	if got := repo.byID[p.ID].Status; got != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}

	// A second accept on an already moving post is a no-op, never a
	// regression or an error.
	if err := svc.BeginTransport(context.Background(), p.ID); err != nil {
		t.Fatalf("second begin transport: %v", err)
	}
	if got := repo.byID[p.ID].Status; got != StatusInProgress {
		t.Fatalf("expected status untouched, got %s", got)
	}
}

func TestRankByDistance_ValidatesCoordinates(t *testing.T) {
	svc := NewService(newTestRepo())

	bad := [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}}
	for _, c := range bad {
		if _, err := svc.RankByDistance(context.Background(), c[0], c[1], 1, 10); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("coords %v: expected ErrInvalidInput, got %v", c, err)
		}
	}

	items, err := svc.RankByDistance(context.Background(), 37.5, 127.0, 1, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestClampPage(t *testing.T) {
	page, limit := clampPage(0, 0)
	if page != 1 || limit != DefaultLimit {
		t.Fatalf("expected defaults, got page=%d limit=%d", page, limit)
	}
	_, limit = clampPage(1, 500)
	if limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, limit)
	}
}
