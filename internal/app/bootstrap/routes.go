// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	albumsfeature "github.com/tripnest/tripnest/internal/app/features/albums"
	authfeature "github.com/tripnest/tripnest/internal/app/features/auth"
	authgooglefeature "github.com/tripnest/tripnest/internal/app/features/authgoogle"
	commentsfeature "github.com/tripnest/tripnest/internal/app/features/comments"
	friendsfeature "github.com/tripnest/tripnest/internal/app/features/friends"
	healthfeature "github.com/tripnest/tripnest/internal/app/features/health"
	likesfeature "github.com/tripnest/tripnest/internal/app/features/likes"
	notificationsfeature "github.com/tripnest/tripnest/internal/app/features/notifications"
	postsfeature "github.com/tripnest/tripnest/internal/app/features/posts"
	profilefeature "github.com/tripnest/tripnest/internal/app/features/profile"
	resourcesfeature "github.com/tripnest/tripnest/internal/app/features/resources"
	vacationsfeature "github.com/tripnest/tripnest/internal/app/features/vacations"
	"github.com/tripnest/tripnest/internal/app/policy/accesspolicy"
	albumstore "github.com/tripnest/tripnest/internal/app/store/albums"
	commentstore "github.com/tripnest/tripnest/internal/app/store/comments"
	friendstore "github.com/tripnest/tripnest/internal/app/store/friends"
	likestore "github.com/tripnest/tripnest/internal/app/store/likes"
	notificationstore "github.com/tripnest/tripnest/internal/app/store/notifications"
	poststore "github.com/tripnest/tripnest/internal/app/store/posts"
	resourcestore "github.com/tripnest/tripnest/internal/app/store/resources"
	userstore "github.com/tripnest/tripnest/internal/app/store/users"
	vacationstore "github.com/tripnest/tripnest/internal/app/store/vacations"
	"github.com/tripnest/tripnest/internal/app/system/auth"
	"github.com/tripnest/tripnest/internal/app/system/notify"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TripNest applies session middleware globally, mounts the public auth
// and health routes, and groups everything else behind RequireSignedIn.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.TripNestMongoDatabase

	// Stores
	users := userstore.New(db)
	vacations := vacationstore.New(db)
	posts := poststore.New(db)
	albums := albumstore.New(db)
	comments := commentstore.New(db)
	likes := likestore.New(db)
	friends := friendstore.New(db)
	notifications := notificationstore.New(db)
	resources := resourcestore.New(db)

	// The access resolver answers "may this user see/author this
	// document" for every entity type in one place.
	access := accesspolicy.NewDefault(db)

	// Notifications are persisted by the notification store; dispatch
	// failures are logged and never surfaced to the mutating request.
	dispatcher := notify.Logging{Next: notifications, Log: logger}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TripNestMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded resource files with pre-compressed file support
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Authentication (public)
	authHandler := authfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	googleHandler := authgooglefeature.NewHandler(users, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		[]byte(appCfg.SessionKey), logger)
	if googleHandler.IsConfigured() {
		authgooglefeature.MountRoutes(r, googleHandler)
	}

	// Everything below requires a signed-in user.
	r.Group(func(pr chi.Router) {
		pr.Use(sessionMgr.RequireSignedIn)

		vacHandler := vacationsfeature.NewHandler(db, access, vacations, posts, albums, comments, likes, resources, logger)
		pr.Mount("/vacations", vacationsfeature.Routes(vacHandler))

		postHandler := postsfeature.NewHandler(db, access, posts, vacations, logger)
		postsfeature.MountRoutes(pr, postHandler)

		albumHandler := albumsfeature.NewHandler(access, albums, vacations, logger)
		albumsfeature.MountRoutes(pr, albumHandler)

		commentHandler := commentsfeature.NewHandler(db, access, comments, dispatcher, logger)
		commentsfeature.MountRoutes(pr, commentHandler)

		likeHandler := likesfeature.NewHandler(db, access, likes, dispatcher, logger)
		likesfeature.MountRoutes(pr, likeHandler)

		resHandler := resourcesfeature.NewHandler(resources, access, appCfg.StorageLocalPath, appCfg.StorageLocalURL, logger)
		pr.Mount("/resources", resourcesfeature.Routes(resHandler))

		friendHandler := friendsfeature.NewHandler(friends, users, logger)
		pr.Mount("/friends", friendsfeature.Routes(friendHandler))

		notifHandler := notificationsfeature.NewHandler(notifications, logger)
		pr.Mount("/notifications", notificationsfeature.Routes(notifHandler))

		profileHandler := profilefeature.NewHandler(users, logger)
		pr.Mount("/profile", profilefeature.Routes(profileHandler))
	})

	return r, nil
}
