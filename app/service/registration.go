package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/dto"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/worker"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/sirupsen/logrus"
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Activate(ctx context.Context, id uint64) error
}

type roleRepository interface {
	FindByName(ctx context.Context, name entity.RoleName) (*entity.Role, error)
}

type VerificationMailer interface {
	SendVerification(ctx context.Context, email, token string) error
}

type TaskDispatcher interface {
	Submit(task worker.Task) error
}

type tokenIssuer interface {
	tokenVerifier
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	IssueVerification(subject string) (string, error)
	AccessTTL() time.Duration
}

type RegistrationService struct {
	users      userRepository
	roles      roleRepository
	hasher     *PasswordHasher
	tokens     tokenIssuer
	mailer     VerificationMailer
	dispatcher TaskDispatcher
	policy     config.PasswordPolicy
}

func NewRegistrationService(
	users userRepository,
	roles roleRepository,
	hasher *PasswordHasher,
	tokens tokenIssuer,
	mailer VerificationMailer,
	dispatcher TaskDispatcher,
	policy config.PasswordPolicy,
) *RegistrationService {
	return &RegistrationService{
		users:      users,
		roles:      roles,
		hasher:     hasher,
		tokens:     tokens,
		mailer:     mailer,
		dispatcher: dispatcher,
		policy:     policy,
	}
}

// Register creates an inactive user with the default role and queues the
// verification mail. The mail outcome never affects the returned result.
func (s *RegistrationService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	if err = s.policy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	role, err := s.roles.FindByName(ctx, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotSeeded
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Email:        email,
		PasswordHash: hashed,
		IsActive:     false,
		Role:         entity.AssignedRole(*role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	if err = s.dispatchVerification(user.Email); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Verification mail not queued")
	}

	return user, nil
}

// ResendVerification queues a fresh verification mail for an inactive user.
// Unknown and already active addresses succeed silently.
func (s *RegistrationService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.IsActive {
		return nil
	}

	if err = s.dispatchVerification(user.Email); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Verification mail not queued")
	}
	return nil
}

// VerifyEmail activates the user named by a verification token. A bad token
// and an unknown user are both ErrVerificationFailed.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.tokens.Verify(token, PurposeVerification)
	if err != nil {
		return ErrVerificationFailed
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrVerificationFailed
	}
	if user.IsActive {
		return nil
	}

	return s.users.Activate(ctx, user.ID)
}

func (s *RegistrationService) Login(ctx context.Context, email, password string) (*dto.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user.Email)
}

// Refresh issues a new pair for a refresh token. The presented token is not
// revoked and stays usable until it expires.
func (s *RegistrationService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	email, err := s.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return s.issuePair(user.Email)
}

func (s *RegistrationService) issuePair(email string) (*dto.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccess(email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefresh(email)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    dto.TokenTypeBearer,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *RegistrationService) dispatchVerification(email string) error {
	token, err := s.tokens.IssueVerification(email)
	if err != nil {
		return err
	}

	return s.dispatcher.Submit(func(ctx context.Context) {
		if sendErr := s.mailer.SendVerification(ctx, email, token); sendErr != nil {
			logrus.WithError(sendErr).WithField("email", email).Error("Failed to send verification email")
		}
	})
}
