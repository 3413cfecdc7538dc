package domain

import (
	"context"
	"errors"

	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	SyncUser(context.Context, *model.SyncUserRequest) (*model.SyncUserResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	GetUsers(context.Context, *model.GetUsersRequest) (*model.GetUsersResponse, error)
}

type userDomain struct {
	userRepo     repository.UserRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewUserDomain(
	userRepo repository.UserRepository,
	roleVerifier *common.GlobalRoleVerifier,
) *userDomain {
	return &userDomain{userRepo: userRepo, roleVerifier: roleVerifier}
}

// SyncUser mirrors the member record of the identity provider. The first
// sync creates the user, later syncs refresh the mutable profile fields.
func (d *userDomain) SyncUser(
	ctx context.Context, req *model.SyncUserRequest,
) (*model.SyncUserResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.Username == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a username")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		user = &entity.User{
			Base:      entity.Base{ID: userID},
			Username:  req.Username,
			AvatarURL: req.AvatarURL,
			Role:      entity.RoleUser,
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}

		return &model.SyncUserResponse{User: model.ConvertUser(user, true)}, nil
	}

	if user.Username != req.Username || user.AvatarURL != req.AvatarURL {
		user.Username = req.Username
		user.AvatarURL = req.AvatarURL
		if err := d.userRepo.UpdateByID(ctx, userID, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.SyncUserResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: model.ConvertUser(user, false)}, nil
}

// GetUsers lists members for the admin console.
func (d *userDomain) GetUsers(
	ctx context.Context, req *model.GetUsersRequest,
) (*model.GetUsersResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	users, err := d.userRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	clientUsers := []model.User{}
	for _, u := range users {
		user := u
		clientUsers = append(clientUsers, model.ConvertUser(&user, true))
	}

	return &model.GetUsersResponse{Users: clientUsers}, nil
}
