package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"move-togaether/internal/ports/auth"
	"move-togaether/internal/ports/geo"
	"move-togaether/internal/router"
)

// fakeAccounts stands in for the hosted auth provider. Identities are
// deterministic: auth id and token derive from the email.
type fakeAccounts struct {
	passwords map[string]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{passwords: make(map[string]string)}
}

func (f *fakeAccounts) session(email string) auth.Session {
	return auth.Session{
		AuthID:      "auth-" + email,
		Email:       email,
		AccessToken: "tok-" + email,
		ExpiresIn:   3600,
	}
}

func (f *fakeAccounts) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	if _, exists := f.passwords[in.Email]; exists {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	f.passwords[in.Email] = in.Password
	return f.session(in.Email), nil
}

func (f *fakeAccounts) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return f.session(email), nil
}

func (f *fakeAccounts) SignInWithProvider(ctx context.Context, provider, providerToken string) (auth.Session, error) {
	return f.session(provider + "-" + providerToken), nil
}

func (f *fakeAccounts) SignOut(ctx context.Context, accessToken string) error {
	return nil
}

type fakeGeocoder struct {
	address string
	err     error
}

func (g *fakeGeocoder) CoordToAddress(ctx context.Context, lat, lng float64) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.address, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // dev mode, X-Debug-User-ID
		Accounts:     newFakeAccounts(),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_TransportLifecycle(t *testing.T) {
	ts := newTestServer(t)

	authorID := signup(t, ts.URL, "author@example.com", "driverkim")
	volunteerID := signup(t, ts.URL, "volunteer@example.com", "helperlee")

	postID := createPost(t, ts.URL, authorID, map[string]any{
		"title":             "Seoul to Busan transport",
		"description":       "Rescue dog needs a ride south",
		"departure_address": "Seoul Station",
		"arrival_address":   "Busan Station",
		"dog_name":          "Mandu",
		"dog_size":          "medium",
		"dog_breed":         "mixed",
		"deadline":          "2026-12-01",
	})

	// Author cannot apply to their own post.
	{
		st, _ := doReq(t, ts.URL, "POST", "/posts/"+postID+"/applications", authorID, map[string]any{
			"message": "I'll take my own dog",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 applying to own post, got %d", st)
		}
	}

	// Volunteer applies.
	appID := ""
	{
		st, body := doReq(t, ts.URL, "POST", "/posts/"+postID+"/applications", volunteerID, map[string]any{
			"message": "Driving that way next week",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 apply, got %d body=%s", st, string(body))
		}
		appID = fieldString(t, body, "id")
	}

	// Second application by the same volunteer conflicts.
	{
		st, _ := doReq(t, ts.URL, "POST", "/posts/"+postID+"/applications", volunteerID, map[string]any{
			"message": "again",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate application, got %d", st)
		}
	}

	// Only the post author may review applications.
	{
		st, _ := doReq(t, ts.URL, "GET", "/posts/"+postID+"/applications", volunteerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing applications as volunteer, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/posts/"+postID+"/applications", authorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing applications, got %d body=%s", st, string(body))
		}
		var items []struct {
			ApplicantNickname string `json:"applicant_nickname"`
		}
		unmarshalData(t, body, &items)
		if len(items) != 1 || items[0].ApplicantNickname != "helperlee" {
			t.Fatalf("expected one application by helperlee, got %+v", items)
		}
	}

	// Non-author cannot move the application.
	{
		st, _ := doReq(t, ts.URL, "PUT", "/applications/"+appID+"/status", volunteerID, map[string]any{
			"status": "accepted",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 set status by non-author, got %d", st)
		}
	}

	// Accepting flips the post to in_progress.
	{
		st, body := doReq(t, ts.URL, "PUT", "/applications/"+appID+"/status", authorID, map[string]any{
			"status": "accepted",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept, got %d body=%s", st, string(body))
		}
	}
	if got := postStatus(t, ts.URL, authorID, postID); got != "in_progress" {
		t.Fatalf("expected post in_progress after accept, got %q", got)
	}

	// Author completes the post; a second complete conflicts.
	{
		st, body := doReq(t, ts.URL, "POST", "/posts/"+postID+"/complete", authorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete, got %d body=%s", st, string(body))
		}
	}
	if got := postStatus(t, ts.URL, authorID, postID); got != "completed" {
		t.Fatalf("expected post completed, got %q", got)
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/posts/"+postID+"/complete", authorID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 completing twice, got %d", st)
		}
	}
}

func TestHTTP_Signup_DuplicatesAndRecovery(t *testing.T) {
	ts := newTestServer(t)

	signupWith(t, ts.URL, map[string]any{
		"email":                "kim@example.com",
		"password":             "secret123",
		"nickname":             "kimmy",
		"security_question_id": 2,
		"security_answer":      "Mandu",
	})

	// Duplicate email, case-insensitive.
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email":    "KIM@example.com",
			"password": "other",
			"nickname": "someoneelse",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
	}
	// Duplicate nickname.
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email":    "other@example.com",
			"password": "other",
			"nickname": "Kimmy",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate nickname, got %d", st)
		}
	}

	// Availability checks.
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/check-email", "", map[string]any{"email": "kim@example.com"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check-email, got %d", st)
		}
		var res struct {
			Available bool `json:"available"`
		}
		unmarshalData(t, body, &res)
		if res.Available {
			t.Fatal("expected taken email to be unavailable")
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/check-nickname", "", map[string]any{"nickname": "freshname"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check-nickname, got %d", st)
		}
		var res struct {
			Available bool `json:"available"`
		}
		unmarshalData(t, body, &res)
		if !res.Available {
			t.Fatal("expected fresh nickname to be available")
		}
	}

	// Security question: full match returns the email, anything else is one
	// generic failure.
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/verify-security-question", "", map[string]any{
			"nickname":             "kimmy",
			"security_question_id": 2,
			"security_answer":      "mandu", // case-insensitive
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 verify, got %d body=%s", st, string(body))
		}
		var res struct {
			Email string `json:"email"`
		}
		unmarshalData(t, body, &res)
		if res.Email != "kim@example.com" {
			t.Fatalf("expected recovered email, got %q", res.Email)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/verify-security-question", "", map[string]any{
			"nickname":             "kimmy",
			"security_question_id": 2,
			"security_answer":      "wrong",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 wrong answer, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/verify-security-question", "", map[string]any{
			"nickname":             "nobody",
			"security_question_id": 2,
			"security_answer":      "Mandu",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown nickname, got %d", st)
		}
	}
}

func TestHTTP_Login(t *testing.T) {
	ts := newTestServer(t)

	signup(t, ts.URL, "park@example.com", "parky")

	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email":    "park@example.com",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email":    "park@example.com",
			"password": "secret123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		var res struct {
			AccessToken string `json:"access_token"`
			Nickname    string `json:"nickname"`
		}
		unmarshalData(t, body, &res)
		if res.AccessToken == "" || res.Nickname != "parky" {
			t.Fatalf("unexpected login response: %+v", res)
		}
	}
}

func TestHTTP_Posts_Pagination(t *testing.T) {
	ts := newTestServer(t)

	userID := signup(t, ts.URL, "poster@example.com", "poster")
	for i := 0; i < 15; i++ {
		createPost(t, ts.URL, userID, map[string]any{
			"title":             fmt.Sprintf("Transport %02d", i),
			"description":       "dog needs a ride",
			"departure_address": "A",
			"arrival_address":   "B",
			"dog_name":          "Bori",
			"dog_size":          "small",
			"dog_breed":         "mixed",
			"deadline":          "2026-12-01",
		})
	}

	seen := map[string]bool{}
	readPage := func(page int) (int, bool, int) {
		st, body := doReq(t, ts.URL, "GET", fmt.Sprintf("/posts?page=%d&limit=10", page), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list page %d, got %d", page, st)
		}
		var env struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
			Pagination struct {
				Total   *int `json:"total"`
				HasMore bool `json:"has_more"`
			} `json:"pagination"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode page %d: %v", page, err)
		}
		for _, it := range env.Data {
			if seen[it.ID] {
				t.Fatalf("post %s appeared on two pages", it.ID)
			}
			seen[it.ID] = true
		}
		if env.Pagination.Total == nil {
			t.Fatalf("page %d missing total", page)
		}
		return len(env.Data), env.Pagination.HasMore, *env.Pagination.Total
	}

	n, more, total := readPage(1)
	if n != 10 || !more || total != 15 {
		t.Fatalf("page 1: got n=%d more=%v total=%d", n, more, total)
	}
	n, more, _ = readPage(2)
	if n != 5 || more {
		t.Fatalf("page 2: got n=%d more=%v", n, more)
	}

	// Search that matches nothing still succeeds with an empty page.
	{
		st, body := doReq(t, ts.URL, "GET", "/posts?search=zzzznothing", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 empty search, got %d", st)
		}
		var env struct {
			Data       []any `json:"data"`
			Pagination struct {
				Total *int `json:"total"`
			} `json:"pagination"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode empty search: %v", err)
		}
		if len(env.Data) != 0 || env.Pagination.Total == nil || *env.Pagination.Total != 0 {
			t.Fatalf("expected empty result with total 0, got %+v", env)
		}
	}
}

func TestHTTP_Posts_SortByDistance(t *testing.T) {
	ts := newTestServer(t)

	userID := signup(t, ts.URL, "geo@example.com", "geouser")

	mk := func(title string, lat, lng float64) {
		createPost(t, ts.URL, userID, map[string]any{
			"title":             title,
			"description":       "ride",
			"departure_address": title,
			"departure_lat":     lat,
			"departure_lng":     lng,
			"arrival_address":   "X",
			"dog_name":          "Dol",
			"dog_size":          "large",
			"dog_breed":         "jindo",
			"deadline":          "2026-12-01",
		})
	}
	mk("from Seoul", 37.5665, 126.9780)
	mk("from Busan", 35.1796, 129.0756)
	mk("from Daejeon", 36.3504, 127.3845)
	// No coordinates: excluded from ranking.
	createPost(t, ts.URL, userID, map[string]any{
		"title":             "no coords",
		"description":       "ride",
		"departure_address": "somewhere",
		"arrival_address":   "X",
		"dog_name":          "Dol",
		"dog_size":          "large",
		"dog_breed":         "jindo",
		"deadline":          "2026-12-01",
	})

	// Auth required.
	{
		st, _ := doReq(t, ts.URL, "POST", "/posts/sort-by-distance", "", map[string]any{
			"lat": 37.5, "lng": 127.0,
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 unauthenticated ranking, got %d", st)
		}
	}

	st, body := doReq(t, ts.URL, "POST", "/posts/sort-by-distance", userID, map[string]any{
		"lat": 37.5665, "lng": 126.9780,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 ranking, got %d body=%s", st, string(body))
	}
	var items []struct {
		Title      string  `json:"title"`
		DistanceKM float64 `json:"distance_km"`
	}
	unmarshalData(t, body, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 ranked posts, got %d", len(items))
	}
	if items[0].Title != "from Seoul" || items[1].Title != "from Daejeon" || items[2].Title != "from Busan" {
		t.Fatalf("unexpected ranking order: %+v", items)
	}
	for i := 1; i < len(items); i++ {
		if items[i].DistanceKM < items[i-1].DistanceKM {
			t.Fatalf("distances not ascending: %+v", items)
		}
	}

	// Out-of-range coordinates are rejected.
	{
		st, _ := doReq(t, ts.URL, "POST", "/posts/sort-by-distance", userID, map[string]any{
			"lat": 123.0, "lng": 127.0,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 bad coordinates, got %d", st)
		}
	}

	// A limit above the cap is clamped and echoed as the effective value, so
	// has_more (= returned count equals the page size) stays truthful.
	{
		st, body := doReq(t, ts.URL, "POST", "/posts/sort-by-distance", userID, map[string]any{
			"lat": 37.5665, "lng": 126.9780, "limit": 100,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 ranking with big limit, got %d", st)
		}
		var env struct {
			Data       []any `json:"data"`
			Pagination struct {
				Limit   int  `json:"limit"`
				HasMore bool `json:"has_more"`
			} `json:"pagination"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode ranking: %v", err)
		}
		if env.Pagination.Limit != 50 {
			t.Fatalf("expected limit clamped to 50, got %d", env.Pagination.Limit)
		}
		if env.Pagination.HasMore {
			t.Fatalf("expected has_more false with %d of 50 rows", len(env.Data))
		}
	}
}

func TestHTTP_Favorites_And_Inquiries(t *testing.T) {
	ts := newTestServer(t)

	authorID := signup(t, ts.URL, "owner@example.com", "owner")
	readerID := signup(t, ts.URL, "reader@example.com", "reader")

	postID := createPost(t, ts.URL, authorID, map[string]any{
		"title":             "Incheon run",
		"description":       "short trip",
		"departure_address": "A",
		"arrival_address":   "B",
		"dog_name":          "Tofu",
		"dog_size":          "small",
		"dog_breed":         "poodle",
		"deadline":          "2026-11-15",
	})

	// Not favorited yet.
	{
		st, body := doReq(t, ts.URL, "GET", "/favorites/check?post_id="+postID, readerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d", st)
		}
		var res struct {
			Favorited bool `json:"favorited"`
		}
		unmarshalData(t, body, &res)
		if res.Favorited {
			t.Fatal("expected not favorited yet")
		}
	}

	// Add twice: idempotent, same favorite comes back.
	firstID := ""
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/favorites", readerID, map[string]any{"post_id": postID})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 add favorite (try %d), got %d body=%s", i+1, st, string(body))
		}
		id := fieldString(t, body, "id")
		if firstID == "" {
			firstID = id
		} else if id != firstID {
			t.Fatalf("expected idempotent add, got ids %s and %s", firstID, id)
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/favorites", readerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list favorites, got %d", st)
		}
		var items []struct {
			PostTitle string `json:"post_title"`
		}
		unmarshalData(t, body, &items)
		if len(items) != 1 || items[0].PostTitle != "Incheon run" {
			t.Fatalf("expected one favorite for Incheon run, got %+v", items)
		}
	}

	// Inquiries: author cannot ask about their own post.
	{
		st, _ := doReq(t, ts.URL, "POST", "/inquiries", authorID, map[string]any{
			"post_id": postID, "message": "is my own dog ok?",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 inquiring own post, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/inquiries", readerID, map[string]any{
			"post_id": postID, "message": "Does Tofu get carsick?",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create inquiry, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/inquiries?post_id="+postID, readerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list inquiries, got %d", st)
		}
		var items []struct {
			Message   string `json:"message"`
			Status    string `json:"status"`
			PostTitle string `json:"post_title"`
		}
		unmarshalData(t, body, &items)
		if len(items) != 1 || items[0].Status != "pending" || items[0].PostTitle != "Incheon run" {
			t.Fatalf("unexpected inquiries: %+v", items)
		}
	}
}

func TestHTTP_Shelters(t *testing.T) {
	ts := newTestServer(t)

	creatorID := signup(t, ts.URL, "shelter@example.com", "shelterkeeper")
	otherID := signup(t, ts.URL, "visitor@example.com", "visitor")

	// Phone is part of the minimum.
	{
		st, _ := doReq(t, ts.URL, "POST", "/shelters", creatorID, map[string]any{
			"name": "Hope Shelter", "description": "small rescue",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 shelter without phone, got %d", st)
		}
	}

	st, body := doReq(t, ts.URL, "POST", "/shelters", creatorID, map[string]any{
		"name":        "Hope Shelter",
		"description": "small rescue in Paju",
		"phone":       "031-000-0000",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create shelter, got %d body=%s", st, string(body))
	}
	shelterID := fieldString(t, body, "id")

	// Only the creator can edit.
	{
		st, _ := doReq(t, ts.URL, "PUT", "/shelters/"+shelterID, otherID, map[string]any{
			"name": "Taken Over",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 update by non-creator, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/shelters/"+shelterID, creatorID, map[string]any{
			"description": "small rescue in Paju, dogs only",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update by creator, got %d", st)
		}
	}

	// Public list with search.
	{
		st, body := doReq(t, ts.URL, "GET", "/shelters?search=paju", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list shelters, got %d", st)
		}
		var items []struct {
			Name string `json:"name"`
		}
		unmarshalData(t, body, &items)
		if len(items) != 1 || items[0].Name != "Hope Shelter" {
			t.Fatalf("unexpected shelter search result: %+v", items)
		}
	}
	// Unverified entries disappear behind the verified filter.
	{
		st, body := doReq(t, ts.URL, "GET", "/shelters?verified=true", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 verified list, got %d", st)
		}
		var items []any
		unmarshalData(t, body, &items)
		if len(items) != 0 {
			t.Fatalf("expected no verified shelters, got %+v", items)
		}
	}
}

func TestHTTP_Coord2Address(t *testing.T) {
	gc := &fakeGeocoder{address: "Seoul Jung-gu Sejong-daero 110"}
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Accounts: newFakeAccounts(),
		Geocoder: gc,
	}))
	t.Cleanup(ts.Close)

	{
		st, body := doReq(t, ts.URL, "POST", "/coord2address", "", map[string]any{
			"lat": 37.5665, "lng": 126.9780,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 geocode, got %d body=%s", st, string(body))
		}
		var res struct {
			Address string `json:"address"`
		}
		unmarshalData(t, body, &res)
		if res.Address != gc.address {
			t.Fatalf("expected resolved address, got %q", res.Address)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/coord2address", "", map[string]any{
			"lat": 95.0, "lng": 126.9780,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 out-of-range latitude, got %d", st)
		}
	}

	// Provider failure and an answer with no usable address component are
	// both upstream errors.
	for _, provErr := range []error{geo.ErrUpstream, geo.ErrNoAddress} {
		gc.err = provErr
		st, _ := doReq(t, ts.URL, "POST", "/coord2address", "", map[string]any{
			"lat": 37.5665, "lng": 126.9780,
		})
		if st != http.StatusBadGateway {
			t.Fatalf("error %v: expected 502, got %d", provErr, st)
		}
	}
}

func TestHTTP_Shelters_LimitCap(t *testing.T) {
	ts := newTestServer(t)

	creatorID := signup(t, ts.URL, "bulk@example.com", "bulkkeeper")
	for i := 0; i < 55; i++ {
		st, body := doReq(t, ts.URL, "POST", "/shelters", creatorID, map[string]any{
			"name":        fmt.Sprintf("Shelter %02d", i),
			"description": "rescue",
			"phone":       "02-000-0000",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create shelter %d, got %d body=%s", i, st, string(body))
		}
	}

	// A limit above the cap is clamped, and the envelope reports the
	// effective limit so has_more stays truthful.
	st, body := doReq(t, ts.URL, "GET", "/shelters?limit=100", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	var env struct {
		Data       []any `json:"data"`
		Pagination struct {
			Page    int  `json:"page"`
			Limit   int  `json:"limit"`
			Total   *int `json:"total"`
			HasMore bool `json:"has_more"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(env.Data) != 50 || env.Pagination.Limit != 50 {
		t.Fatalf("expected 50 rows at the capped limit, got n=%d limit=%d", len(env.Data), env.Pagination.Limit)
	}
	if env.Pagination.Total == nil || *env.Pagination.Total != 55 {
		t.Fatalf("expected total 55, got %v", env.Pagination.Total)
	}
	if !env.Pagination.HasMore {
		t.Fatal("expected has_more with 5 rows past the capped page")
	}
}

func signup(t *testing.T, baseURL, email, nickname string) string {
	t.Helper()
	return signupWith(t, baseURL, map[string]any{
		"email":    email,
		"password": "secret123",
		"nickname": nickname,
	})
}

// signupWith creates the account and returns the auth id to use as the
// X-Debug-User-ID on later requests.
func signupWith(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/signup", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}
	email, _ := payload["email"].(string)
	return "auth-" + email
}

func createPost(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/posts", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create post, got %d body=%s", st, string(body))
	}
	return fieldString(t, body, "id")
}

func postStatus(t *testing.T, baseURL, authorID, postID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/posts/my?limit=50", authorID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 my posts, got %d body=%s", st, string(body))
	}
	var items []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	unmarshalData(t, body, &items)
	for _, it := range items {
		if it.ID == postID {
			return it.Status
		}
	}
	t.Fatalf("post %s not in author's listing", postID)
	return ""
}

func fieldString(t *testing.T, body []byte, field string) string {
	t.Helper()

	var data map[string]any
	unmarshalData(t, body, &data)
	s, _ := data[field].(string)
	if s == "" {
		t.Fatalf("missing %q in response data body=%s", field, string(body))
	}
	return s
}

// unmarshalData unwraps the data side of the response envelope.
func unmarshalData(t *testing.T, body []byte, out any) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, string(body))
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, out
}
