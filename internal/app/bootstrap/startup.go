// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	notificationstore "github.com/dalemusser/collabhub/internal/app/store/notifications"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/tasks"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/apperr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.ConfigureFromEnv()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}

	tasks.Start(ctx, logger,
		tasks.NotificationCleanupJob(
			notificationstore.New(deps.MongoDatabase),
			logger,
			appCfg.NotificationRetention,
		),
	)

	return nil
}

// ensureAdmin creates the bootstrap admin account, or promotes an
// existing account with that email to admin. Without at least one admin
// a fresh deployment has no way to provision users.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, appCfg.AdminEmail)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		_, uerr := deps.MongoDatabase.Collection("users").UpdateByID(ctx, existing.ID,
			bson.M{"$addToSet": bson.M{"roles": models.RoleAdmin}})
		if uerr != nil {
			return uerr
		}
		logger.Info("promoted existing user to admin",
			zap.String("user_id", existing.ID.Hex()))
		return nil

	case errors.Is(err, apperr.ErrNotFound):
		if appCfg.AdminPassword == "" {
			logger.Warn("admin_email set but admin_password empty, skipping admin bootstrap")
			return nil
		}
		created, cerr := users.Create(ctx, models.User{
			FullName:   appCfg.AdminName,
			Email:      appCfg.AdminEmail,
			Roles:      []string{models.RoleAdmin},
			Department: "operations",
		}, appCfg.AdminPassword)
		if cerr != nil {
			return cerr
		}
		logger.Info("created bootstrap admin",
			zap.String("user_id", created.ID.Hex()))
		return nil

	default:
		return err
	}
}
