package seed

import (
	"context"
	"errors"
	"strings"

	appModels "github.com/campusleave/leavedesk/internal/app/models"
	appRepos "github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AdminAccount describes the bootstrap administrator
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// DefaultHostels are created on first start
var DefaultHostels = []appModels.Hostel{
	{Name: "North Block", Capacity: intPtr(240)},
	{Name: "South Block", Capacity: intPtr(200)},
	{Name: "Girls Hostel A", Capacity: intPtr(180)},
}

// DefaultBranches are created on first start
var DefaultBranches = []appModels.Branch{
	{Name: "Computer Science and Engineering", Code: "CSE"},
	{Name: "Electronics and Communication Engineering", Code: "ECE"},
	{Name: "Mechanical Engineering", Code: "ME"},
	{Name: "Civil Engineering", Code: "CE"},
}

func intPtr(v int) *int { return &v }

// CreateDefaultData creates the admin account and the default campus
// directory. Existing rows are left untouched, so it is safe to run on every
// start. Failures are joined and returned after every step was attempted.
func CreateDefaultData(
	ctx context.Context,
	userRepo appRepos.IUserRepository,
	campusRepo appRepos.ICampusRepository,
	admin AdminAccount,
	hash func(string) (string, error),
	lgr zerolog.Logger,
) error {
	lgr.Info().Msg("Checking/Creating default data (admin, hostels, branches)...")
	var finalErr error

	if err := ensureAdmin(ctx, userRepo, admin, hash, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		finalErr = errors.Join(finalErr, err)
	}

	for _, h := range DefaultHostels {
		hostel := h
		err := campusRepo.CreateHostel(ctx, &hostel)
		switch {
		case err == nil:
			lgr.Info().Str("hostel", hostel.Name).Msg("Default hostel created")
		case errors.Is(err, apperrors.ErrHostelAlreadyExists):
		default:
			lgr.Error().Err(err).Str("hostel", hostel.Name).Msg("Error creating default hostel")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, b := range DefaultBranches {
		branch := b
		err := campusRepo.CreateBranch(ctx, &branch)
		switch {
		case err == nil:
			lgr.Info().Str("branch", branch.Code).Msg("Default branch created")
		case errors.Is(err, apperrors.ErrBranchAlreadyExists):
		default:
			lgr.Error().Err(err).Str("branch", branch.Code).Msg("Error creating default branch")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation completed.")
	return finalErr
}

func ensureAdmin(ctx context.Context, userRepo appRepos.IUserRepository, admin AdminAccount,
	hash func(string) (string, error), lgr zerolog.Logger) error {

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("No admin credentials configured, skipping admin account")
		return nil
	}

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := hash(admin.Password)
	if err != nil {
		return err
	}

	user := &appModels.User{
		Name:     admin.Name,
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
		Status:   appModels.UserActive,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", email).Int64("id", user.ID).Msg("Admin account created")
	return nil
}
