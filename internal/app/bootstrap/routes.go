// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/collabhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/collabhub/internal/app/features/login"
	notificationsfeature "github.com/dalemusser/collabhub/internal/app/features/notifications"
	projectsfeature "github.com/dalemusser/collabhub/internal/app/features/projects"
	tasksfeature "github.com/dalemusser/collabhub/internal/app/features/tasks"
	usersfeature "github.com/dalemusser/collabhub/internal/app/features/users"
	"github.com/dalemusser/collabhub/internal/app/notify"
	"github.com/dalemusser/collabhub/internal/app/services/projectsvc"
	"github.com/dalemusser/collabhub/internal/app/services/tasksvc"
	notificationstore "github.com/dalemusser/collabhub/internal/app/store/notifications"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/collabhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/assign"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/projlock"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
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
// CollabHub builds the store layer, wires the services on top of it,
// applies session middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	users := userstore.New(deps.MongoDatabase)
	projects := projectstore.New(deps.MongoDatabase)
	taskStore := taskstore.New(deps.MongoDatabase)
	notes := notificationstore.New(deps.MongoDatabase)

	// Shared infrastructure
	hub := notify.NewHub(appCfg.NotifyBufferSize)
	dispatcher := notify.NewDispatcher(notes, hub, logger)
	locks := projlock.NewRegistry()

	// Services
	taskSvc := tasksvc.New(projects, taskStore, users, assign.New(users), dispatcher, locks, logger)
	projectSvc := projectsvc.New(deps.MongoClient, projects, taskStore, locks, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, logger)
	r.Mount("/", loginfeature.Routes(loginHandler))

	// Projects and their tasks
	tasksHandler := tasksfeature.NewHandler(taskSvc, logger)
	projectsHandler := projectsfeature.NewHandler(projectSvc, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, tasksfeature.ProjectRoutes(tasksHandler)))
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))

	// Notification feed and realtime stream
	notificationsHandler := notificationsfeature.NewHandler(notes, hub, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	// User directory and admin provisioning
	usersHandler := usersfeature.NewHandler(users, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	return r, nil
}
