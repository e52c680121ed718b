package utils

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/normalization"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

func ValidateRegistration(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User) error {
	if user == nil {
		return apierr.Validation(fmt.Errorf("no user given, cannot proceed with registration"))
	}
	if user.Email == "" {
		return apierr.Validation(fmt.Errorf("an email is required to register"))
	}
	emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return apierr.Storage(fmt.Errorf("failed to check user email: %w", err))
	}
	if emailExists {
		return apierr.Validation(fmt.Errorf("email is already in use"))
	}
	if user.Password == "" {
		return apierr.Validation(fmt.Errorf("a password is required to register"))
	}
	if user.FirstName == "" {
		return apierr.Validation(fmt.Errorf("a first name is required to register"))
	}
	if user.LastName == "" {
		return apierr.Validation(fmt.Errorf("a last name is required to register"))
	}
	if user.Role != "" && !types.IsValidRole(user.Role) {
		return apierr.Validation(fmt.Errorf("unknown role %q", user.Role))
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if email == "" {
		return apierr.Validation(fmt.Errorf("email is required to login"))
	}
	if password == "" {
		return apierr.Validation(fmt.Errorf("password is required to login"))
	}
	return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", "error", err)
		return fmt.Errorf("failed to hash password")
	}
	user.Password = string(hashedPassword)
	return nil
}

// NormalizeUserFields canonicalizes the email and trims the name
// fields without touching their case.
func NormalizeUserFields(ctx context.Context, user *types.User) {
	user.Email = normalization.ParseInputString(user.Email)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
}
