package user

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/security"
	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the admin account use cases. Usernames follow the slug
// pattern and act as the natural key.
type Service struct {
	repo repository.UserRepository
}

// NewService builds a user service.
func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListUsersOptions) (*model.PageData[*model.UserResponse], error) {
	options.Normalize()
	users, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(users), total, options.Page, options.PageSize), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error) {
	if err := s.ensureUsernameFree(ctx, req.Username, 0); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = model.UserRoleEditor
	}
	if !model.IsValidUserRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", constant.ErrValidation, role)
	}
	status := req.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if !model.IsValidUserStatus(status) {
		return nil, fmt.Errorf("%w: unknown user status %q", constant.ErrInvalidStatus, status)
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &model.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    req.Avatar,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateUserRequest) (*model.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Username != nil && *req.Username != u.Username {
		if err := s.ensureUsernameFree(ctx, *req.Username, id); err != nil {
			return nil, err
		}
		u.Username = *req.Username
	}
	if req.Nickname != nil {
		u.Nickname = *req.Nickname
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if req.Avatar != nil {
		u.AvatarURL = *req.Avatar
	}
	if req.Role != nil {
		if !model.IsValidUserRole(*req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", constant.ErrValidation, *req.Role)
		}
		u.Role = *req.Role
	}
	if req.Status != nil {
		if !model.IsValidUserStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown user status %q", constant.ErrInvalidStatus, *req.Status)
		}
		u.Status = *req.Status
	}
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// Delete removes an account. Accounts cannot delete themselves.
func (s *Service) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", constant.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

// BatchDelete removes a set of accounts, all-or-nothing, never including the
// acting account.
func (s *Service) BatchDelete(ctx context.Context, ids []uint, actorID uint) error {
	for _, id := range ids {
		if id == actorID {
			return fmt.Errorf("%w: cannot delete your own account", constant.ErrForbidden)
		}
	}
	return s.repo.BatchDelete(ctx, ids)
}

// UpdateStatus enables or disables an account. Accounts cannot disable
// themselves.
func (s *Service) UpdateStatus(ctx context.Context, id, actorID uint, status string) error {
	if !model.IsValidUserStatus(status) {
		return fmt.Errorf("%w: unknown user status %q", constant.ErrInvalidStatus, status)
	}
	if id == actorID && status == model.UserStatusDisabled {
		return fmt.Errorf("%w: cannot disable your own account", constant.ErrForbidden)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, actorID uint, status string) error {
	if !model.IsValidUserStatus(status) {
		return fmt.Errorf("%w: unknown user status %q", constant.ErrInvalidStatus, status)
	}
	if status == model.UserStatusDisabled {
		for _, id := range ids {
			if id == actorID {
				return fmt.Errorf("%w: cannot disable your own account", constant.ErrForbidden)
			}
		}
	}
	return s.repo.BatchUpdateStatus(ctx, ids, status)
}

// CheckUsername reports username availability.
func (s *Service) CheckUsername(ctx context.Context, username string, excludeID uint) (*model.SlugCheckResult, error) {
	if !strutil.IsValidSlug(username) {
		return nil, fmt.Errorf("%w: %q", constant.ErrInvalidSlug, username)
	}
	exists, err := s.repo.ExistsBySlug(ctx, username, excludeID)
	if err != nil {
		return nil, err
	}
	return &model.SlugCheckResult{Available: !exists}, nil
}

func (s *Service) Stats(ctx context.Context) (*model.UserStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string, excludeID uint) error {
	if !strutil.IsValidSlug(username) {
		return fmt.Errorf("%w: %q", constant.ErrInvalidSlug, username)
	}
	exists, err := s.repo.ExistsBySlug(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: username %q already in use", constant.ErrConflict, username)
	}
	return nil
}

func toResponse(u *model.User) *model.UserResponse {
	return &model.UserResponse{
		ID:          u.ID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

func toResponses(users []*model.User) []*model.UserResponse {
	out := make([]*model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out
}
