package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/infrastructure/database"
	"github.com/johnquangdev/mom-generator/pkg/config"
	"github.com/johnquangdev/mom-generator/pkg/jwt"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the sql-migrate migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Database.MigrationsDir
			}

			db, err := database.NewPostgresDB(cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			return database.AutoMigrate(db, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to DB_MIGRATIONS_DIR)")
	return cmd
}

type seedUser struct {
	Email string
	Name  string
	Role  entities.UserRole
}

var testUsers = []seedUser{
	{Email: "alice@test.local", Name: "Alice", Role: entities.RoleAdmin},
	{Email: "bob@test.local", Name: "Bob", Role: entities.RoleMember},
	{Email: "charlie@test.local", Name: "Charlie", Role: entities.RoleMember},
}

func seedCmd() *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create test users, a project and access tokens for them",
		Long: `Replaces the @test.local users with a fresh set, adds them to a new
project and prints an access token per user.

Clean up with: DELETE FROM users WHERE email LIKE '%@test.local'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresDB(cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			log.Println("🗑️  Cleaning up existing test users...")
			project := &entities.Project{ID: uuid.New(), Name: projectName}
			users := make([]*entities.User, 0, len(testUsers))
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("user_id IN (SELECT id FROM users WHERE email LIKE ?)", "%@test.local").
					Delete(&entities.ProjectMember{}).Error; err != nil {
					return err
				}
				if err := tx.Where("email LIKE ?", "%@test.local").Delete(&entities.User{}).Error; err != nil {
					return err
				}
				if err := tx.Create(project).Error; err != nil {
					return err
				}
				for _, u := range testUsers {
					user := entities.NewUser(u.Email, u.Name)
					user.Role = u.Role
					if err := tx.Create(user).Error; err != nil {
						return fmt.Errorf("failed to create user %s: %w", u.Email, err)
					}
					member := &entities.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: u.Role}
					if err := tx.Omit("User").Create(member).Error; err != nil {
						return fmt.Errorf("failed to add %s to project: %w", u.Email, err)
					}
					users = append(users, user)
				}
				return nil
			})
			if err != nil {
				return err
			}

			manager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:      %s (%s)\n\n", project.Name, project.ID)
			for i, user := range users {
				token, err := manager.GenerateAccessToken(user.ID.String(), user.Name, string(user.Role))
				if err != nil {
					return fmt.Errorf("failed to sign token for %s: %w", user.Email, err)
				}
				fmt.Fprintf(out, "🟢 User %d: %s\n", i+1, user.Name)
				fmt.Fprintf(out, "Email:        %s\n", user.Email)
				fmt.Fprintf(out, "User ID:      %s\n", user.ID)
				fmt.Fprintf(out, "Role:         %s\n", user.Role)
				fmt.Fprintf(out, "Access Token: %s\n\n", token)
			}

			log.Printf("✅ Created %d test users; tokens expire after %v", len(users), cfg.JWT.AccessExpiry)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectName, "project", "Demo Project", "name of the project to create")
	return cmd
}
