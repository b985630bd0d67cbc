package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "move-togaether/internal/adapters/storage/memory"
	pg "move-togaether/internal/adapters/storage/postgres"
	"move-togaether/internal/domain/accounts"
	"move-togaether/internal/domain/applications"
	"move-togaether/internal/domain/favorites"
	"move-togaether/internal/domain/inquiries"
	"move-togaether/internal/domain/posts"
	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/domain/shelters"
	"move-togaether/internal/middleware"
	"move-togaether/internal/platform/logger"
	"move-togaether/internal/ports/auth"
	"move-togaether/internal/ports/geo"
	"move-togaether/internal/ports/social"
	"move-togaether/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.TokenVerifier // may be nil (dev mode, X-Debug-User-ID)
	Accounts     auth.Accounts      // may be nil; /auth endpoints disabled
	Kakao        social.Provider    // may be nil; kakao endpoints answer 502
	Geocoder     geo.ReverseGeocoder
	Files        storage.ObjectStore

	// If set, use Postgres. Otherwise in-memory.
	DB *sql.DB

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/sitemap", serveSitemap)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		profileRepo     profiles.Repository
		shelterRepo     shelters.Repository
		postRepo        posts.Repository
		applicationRepo applications.Repository
		favoriteRepo    favorites.Repository
		inquiryRepo     inquiries.Repository
	)

	// If no DB was handed in, try env (dev/handoff convenience).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("db open failed, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		profileRepo = pg.NewProfilesRepo(db)
		shelterRepo = pg.NewSheltersRepo(db)
		postRepo = pg.NewPostsRepo(db)
		applicationRepo = pg.NewApplicationsRepo(db)
		favoriteRepo = pg.NewFavoritesRepo(db)
		inquiryRepo = pg.NewInquiriesRepo(db)
	} else {
		store := mem.NewStore()
		profileRepo = mem.NewProfileRepo(store)
		shelterRepo = mem.NewShelterRepo(store)
		postRepo = mem.NewPostRepo(store)
		applicationRepo = mem.NewApplicationRepo(store)
		favoriteRepo = mem.NewFavoriteRepo(store)
		inquiryRepo = mem.NewInquiryRepo(store)
	}

	files := opts.Files
	if files == nil {
		files = mem.NewObjectStore()
	}

	profilesSvc := profiles.NewService(profileRepo)
	sheltersSvc := shelters.NewService(shelterRepo)
	postsSvc := posts.NewService(postRepo)
	applicationsSvc := applications.NewService(applicationRepo, postsSvc, log)
	favoritesSvc := favorites.NewService(favoriteRepo, postsSvc)
	inquiriesSvc := inquiries.NewService(inquiryRepo, postsSvc)

	profiles.RegisterRoutes(r, profilesSvc)
	shelters.RegisterRoutes(r, sheltersSvc, profilesSvc)
	posts.RegisterRoutes(r, postsSvc, profilesSvc, files)
	applications.RegisterRoutes(r, applicationsSvc, profilesSvc)
	favorites.RegisterRoutes(r, favoritesSvc, profilesSvc)
	inquiries.RegisterRoutes(r, inquiriesSvc, profilesSvc)

	if opts.Accounts != nil {
		accountsSvc := accounts.NewService(opts.Accounts, opts.Kakao, profilesSvc, log)
		accounts.RegisterRoutes(r, accountsSvc)
	} else {
		log.Warn("auth provider not configured, /auth endpoints disabled", nil)
	}

	registerGeocode(r, opts.Geocoder)

	return r
}
