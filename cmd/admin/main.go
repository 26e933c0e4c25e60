// Command admin is the operator CLI: it seeds sample data and bootstraps
// privileged accounts directly through the repositories.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salon-booking/internal/core/config"
	"salon-booking/internal/core/database"
	"salon-booking/internal/core/logger"
	"salon-booking/internal/domain"
	"salon-booking/internal/pagination"
	"salon-booking/internal/repo"
	"salon-booking/pkg/utils"
)

func main() {
	var (
		seed     = flag.Bool("seed", false, "create the sample admin, category and service when missing")
		email    = flag.String("email", "", "email of the account to create")
		phone    = flag.String("phone", "", "phone of the account to create")
		password = flag.String("password", "", "password of the account to create")
		name     = flag.String("name", "Administrator", "display name of the account to create")
		role     = flag.String("role", string(domain.RoleSuperAdmin), "role of the account to create (USER, ADMIN, SUPERADMIN)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := logger.FromConfig(cfg.App, cfg.Log)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username, // 传入用户名
		Password:           cfg.DB.Password, // 传入密码
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	if err := database.Migrate(db, domain.Models()...); err != nil {
		l.Fatal("automigrate failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	store := repo.NewStore(db)

	switch {
	case *seed:
		err = Seed(ctx, store, l)
	case *email != "" || *phone != "":
		var r domain.Role
		if r, err = domain.ParseRole(*role); err == nil {
			_, err = Bootstrap(ctx, store, BootstrapInput{
				Name: *name, Email: *email, Phone: *phone, Password: *password, Role: r,
			})
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal("admin command failed", zap.Error(err))
	}
	l.Info("admin command done")
}

type BootstrapInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// Bootstrap creates an account without an acting user, so the role rules
// do not apply.
func Bootstrap(ctx context.Context, store *repo.Store, in BootstrapInput) (*domain.User, error) {
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	u := &domain.User{Name: strings.TrimSpace(in.Name), Role: in.Role}
	if e := strings.TrimSpace(in.Email); e != "" {
		existing, err := store.Users.FindByEmail(ctx, e)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("email %s already registered", e)
		}
		u.Email = &e
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		existing, err := store.Users.FindByPhone(ctx, p)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("phone %s already registered", p)
		}
		u.Phone = &p
	}
	if u.Email == nil && u.Phone == nil {
		return nil, errors.New("email or phone is required")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	if err := store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin123"
	seedCategory      = "Hair Care"
	seedService       = "Haircut & Styling"
)

// Seed is idempotent: rows that already exist are left alone.
func Seed(ctx context.Context, store *repo.Store, l *zap.Logger) error {
	return store.Transaction(ctx, func(tx *repo.Store) error {
		admin, err := tx.Users.FindByEmail(ctx, seedAdminEmail)
		if err != nil {
			return err
		}
		if admin == nil {
			if _, err := Bootstrap(ctx, tx, BootstrapInput{
				Name: "Admin User", Email: seedAdminEmail, Password: seedAdminPassword, Role: domain.RoleAdmin,
			}); err != nil {
				return err
			}
			l.Info("seeded admin", zap.String("email", seedAdminEmail))
		}

		cat, err := tx.Categories.FindByName(ctx, seedCategory)
		if err != nil {
			return err
		}
		if cat == nil {
			desc := "Professional hair care services"
			cat = &domain.Category{Name: seedCategory, Description: &desc, IsActive: true}
			if err := tx.Categories.Create(ctx, cat); err != nil {
				return err
			}
			l.Info("seeded category", zap.String("name", seedCategory))
		}

		existing, _, err := tx.Services.List(ctx, domain.ServiceFilter{CategoryID: cat.ID}, pagination.All())
		if err != nil {
			return err
		}
		for _, s := range existing {
			if s.Title == seedService {
				return nil
			}
		}
		desc := "Professional haircut and styling service"
		svc := &domain.Service{
			CategoryID:  cat.ID,
			Title:       seedService,
			Description: &desc,
			Duration:    60,
			Price:       decimal.NewFromInt(500),
			IsActive:    true,
		}
		if err := tx.Services.Create(ctx, svc); err != nil {
			return err
		}
		l.Info("seeded service", zap.String("title", seedService))
		return nil
	})
}
