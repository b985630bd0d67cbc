package posts

import "time"

// Status is the transport-request lifecycle. Forward-only:
// active → in_progress (an application was accepted) → completed (author).
// @Enum active, in_progress, completed
type Status string

const (
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DogSize buckets used by the list filter.
// @Enum small, medium, large
type DogSize string

const (
	DogSizeSmall  DogSize = "small"
	DogSizeMedium DogSize = "medium"
	DogSizeLarge  DogSize = "large"
)

func ValidDogSize(s string) bool {
	switch DogSize(s) {
	case DogSizeSmall, DogSizeMedium, DogSizeLarge:
		return true
	}
	return false
}

// Post is a transport-request listing.
type Post struct {
	ID       string
	AuthorID string

	Title       string
	Description string

	DepartureAddress string
	DepartureLat     *float64
	DepartureLng     *float64
	ArrivalAddress   string
	ArrivalLat       *float64
	ArrivalLng       *float64

	DogName            string
	DogSize            DogSize
	DogBreed           string
	DogAge             int
	DogCharacteristics string

	ImageURLs   []string
	RelatedLink string

	Deadline time.Time // date only
	Status   Status

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a Post joined with the author fields list views show.
// AuthorPhone is empty unless the author opted into phone visibility.
type Summary struct {
	Post

	AuthorNickname string
	AuthorPhone    string

	// Only populated on "my posts" listings.
	ApplicationCount int
	FavoriteCount    int
}

// Ranked is a Summary with its distance from the query point.
type Ranked struct {
	Summary
	DistanceKM float64
}
