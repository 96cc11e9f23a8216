// Package bootstrap contains one-time startup provisioning.
package bootstrap

import (
	"context"
	"log"

	"github.com/uritmix/studio-api/internal/config"
	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
	"github.com/uritmix/studio-api/internal/utils"
)

// EnsureAdmin creates the first admin account when none exists yet. The
// account comes up already activated so the instance is usable immediately.
// Without ADMIN_EMAIL and ADMIN_PASSWORD the step is skipped entirely.
func EnsureAdmin(ctx context.Context, persons *repository.PersonRepo, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("admin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	n, err := persons.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	salt, err := utils.NewSalt()
	if err != nil {
		return err
	}
	admin := &model.Person{
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
		HaveAuth:  true,
		Auth: &model.Auth{
			Role:   model.RoleAdmin,
			Status: model.StatusActivated,
			Email:  cfg.AdminEmail,
			Hash:   utils.HashPassword(cfg.AdminPassword, salt),
			Salt:   salt,
		},
	}
	if err := persons.CreateWithAuth(ctx, admin); err != nil {
		return err
	}
	log.Printf("admin bootstrap: created %s (person %d)", cfg.AdminEmail, admin.ID)
	return nil
}
