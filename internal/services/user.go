package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/requestdata"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo, avatarService: avatarService}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(fmt.Errorf("no authenticated user in context"))
	}
	return us.Get(ctx, rd.UserID)
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", id))
	}
	return users[0], nil
}

func (us *userService) UpdateAvatarFromImage(ctx context.Context, raw []byte) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(fmt.Errorf("no authenticated user in context"))
	}
	if len(raw) == 0 {
		return nil, apierr.Validation(fmt.Errorf("avatar image is empty"))
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, uErr := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if uErr != nil {
			return apierr.Storage(uErr)
		}
		if len(users) == 0 {
			return apierr.NotFound(fmt.Errorf("user %s not found", rd.UserID))
		}
		user := users[0]
		if aErr := us.avatarService.CreateUserAvatarFromImage(ctx, tx, user, raw); aErr != nil {
			return apierr.Validation(aErr)
		}
		row, upErr := us.userRepo.Update(ctx, tx, user)
		if upErr != nil {
			return apierr.Storage(upErr)
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
