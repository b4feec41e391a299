package service

import (
	"context"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"solution_share/internal/domain/repository"
	"time"

	"github.com/rs/zerolog"
)

// UserCache is the part of the read cache that must forget a deleted user.
type UserCache interface {
	ForgetUser(ctx context.Context, userID string)
}

type UserService struct {
	users   repository.UserRepository
	cache   UserCache
	now     func() time.Time
	log     zerolog.Logger
	observe UseCaseObserver
}

func NewUserService(users repository.UserRepository, cache UserCache, log zerolog.Logger, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{users: users, cache: cache, now: time.Now, log: log, observe: o.observe}
}

type CreateUserRequest struct {
	UID      string `json:"uid" validate:"required,max=120"`
	UserName string `json:"user_name" validate:"required,notblank,max=30"`
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (user *model.User, err error) {
	defer func() { s.observe("create_user", err) }()

	if err := validateInput(common.AggregateUser, req); err != nil {
		return nil, err
	}
	user = &model.User{
		ID:       req.UID,
		UserName: req.UserName,
		Role:     model.RoleUser,
		Color:    model.DefaultUserColor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isConflict(err) {
			return nil, common.Conflict(common.AggregateUser, "user name %q or account is already taken", req.UserName)
		}
		return nil, common.FromStorage(common.AggregateUser, err)
	}
	return user, nil
}

func (s *UserService) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateUser, err)
	}
	return user, nil
}

// DeleteMe removes the account; the schema cascades its solutions, votes and
// comments.
func (s *UserService) DeleteMe(ctx context.Context, userID string) (err error) {
	defer func() { s.observe("delete_user", err) }()

	if err := s.users.DeleteByID(ctx, userID); err != nil {
		return common.FromStorage(common.AggregateUser, err)
	}
	if s.cache != nil {
		s.cache.ForgetUser(ctx, userID)
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// RevokeTokens invalidates every token issued before now. Tokens are
// compared at second precision, so the watermark is stored truncated.
func (s *UserService) RevokeTokens(ctx context.Context, userID string) (at time.Time, err error) {
	defer func() { s.observe("revoke_tokens", err) }()

	at = s.now().UTC().Truncate(time.Second)
	if err := s.users.RevokeTokens(ctx, userID, at); err != nil {
		return time.Time{}, common.FromStorage(common.AggregateUser, err)
	}
	return at, nil
}

func isConflict(err error) bool {
	kind, ok := common.StorageKindOf(err)
	return ok && kind == common.StorageUniqueViolation
}
