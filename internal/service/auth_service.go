package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jupiter-hub/jupiter-go-api/internal/auth"
	"github.com/jupiter-hub/jupiter-go-api/internal/dto"
	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/internal/observability"
	"github.com/jupiter-hub/jupiter-go-api/internal/repository"
	"github.com/jupiter-hub/jupiter-go-api/pkg/password"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

// Auth session failures.
var (
	ErrEmailRegistered      = errors.New("email already registered")
	ErrStudentAlreadyLinked = errors.New("student already linked to another account")
	ErrStudentIDRequired    = errors.New("student id is required for the STUDENT role")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrUserNotFound         = errors.New("user not found")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
)

// AuthService implements the register/login/refresh/logout session lifecycle.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, actor *auth.Identity) (dto.SessionResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	tokens    *token.Service
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth session service.
func NewAuthService(users repository.UserRepository, students repository.StudentRepository, tokens *token.Service, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		students:  students,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, actor *auth.Identity) (dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SessionResponse{}, err
	}

	// Only an authenticated ADMIN may create HR or STUDENT accounts.
	if req.Role == models.RoleHR || req.Role == models.RoleStudent {
		if actor == nil {
			return dto.SessionResponse{}, auth.ErrUnauthenticated
		}
		if actor.Role != models.RoleAdmin {
			return dto.SessionResponse{}, auth.ErrForbidden
		}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return dto.SessionResponse{}, ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SessionResponse{}, err
	}

	var linkedStudent *models.Student
	if req.Role == models.RoleStudent {
		if req.StudentID == nil {
			return dto.SessionResponse{}, ErrStudentIDRequired
		}

		student, err := s.students.GetByID(ctx, *req.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SessionResponse{}, ErrStudentNotFound
			}
			return dto.SessionResponse{}, err
		}

		if _, err := s.users.GetByStudentID(ctx, student.ID); err == nil {
			return dto.SessionResponse{}, ErrStudentAlreadyLinked
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, err
		}

		linkedStudent = &student
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
		IsActive:     true,
	}
	if linkedStudent != nil {
		user.StudentID = &linkedStudent.ID
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.SessionResponse{}, err
	}

	// Back-reference from the student to its account. Part of the same
	// logical operation, but not transactional with the insert above.
	if linkedStudent != nil {
		if err := s.students.SetLinkedUser(ctx, linkedStudent.ID, user.ID); err != nil {
			s.logger.Error().Err(err).Uint("student_id", linkedStudent.ID).Msg("failed to link student to account")
			return dto.SessionResponse{}, err
		}
	}

	pair, err := s.issueSession(ctx, &user)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	observability.AuthAttempts().WithLabelValues("register", "success").Inc()
	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("account registered")
	return dto.NewSessionResponse(user, pair), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SessionResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.AuthAttempts().WithLabelValues("login", "failure").Inc()
			return dto.SessionResponse{}, ErrInvalidCredentials
		}
		return dto.SessionResponse{}, err
	}

	if !user.IsActive {
		observability.AuthAttempts().WithLabelValues("login", "deactivated").Inc()
		return dto.SessionResponse{}, ErrAccountDeactivated
	}

	if !password.Matches(user.PasswordHash, req.Password) {
		observability.AuthAttempts().WithLabelValues("login", "failure").Inc()
		return dto.SessionResponse{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(tokenSubject(user))
	if err != nil {
		return dto.SessionResponse{}, err
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, now, pair.RefreshToken); err != nil {
		return dto.SessionResponse{}, err
	}
	user.LastLoginAt = &now
	user.RefreshToken = pair.RefreshToken

	observability.AuthAttempts().WithLabelValues("login", "success").Inc()
	s.logger.Info().Uint("user_id", user.ID).Msg("login succeeded")
	return dto.NewSessionResponse(user, pair), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.tokens.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return token.Pair{}, err
		}
		return token.Pair{}, ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.Pair{}, ErrInvalidRefreshToken
		}
		return token.Pair{}, err
	}

	// Single active session: only the most recently stored refresh token is
	// exchangeable. Rotation below immediately invalidates the presented one.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		observability.AuthAttempts().WithLabelValues("refresh", "superseded").Inc()
		return token.Pair{}, ErrInvalidRefreshToken
	}

	pair, err := s.tokens.Issue(tokenSubject(user))
	if err != nil {
		return token.Pair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return token.Pair{}, err
	}

	observability.AuthAttempts().WithLabelValues("refresh", "success").Inc()
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Uint("user_id", userID).Msg("session closed")
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !password.Matches(user.PasswordHash, req.CurrentPassword) {
		return ErrIncorrectPassword
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) issueSession(ctx context.Context, user *models.User) (token.Pair, error) {
	pair, err := s.tokens.Issue(tokenSubject(*user))
	if err != nil {
		return token.Pair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return token.Pair{}, err
	}
	user.RefreshToken = pair.RefreshToken
	return pair, nil
}

// tokenSubject maps an account onto token claims. The student link rides
// along only for STUDENT accounts.
func tokenSubject(user models.User) token.Subject {
	subject := token.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}
	if user.Role == models.RoleStudent {
		subject.StudentID = user.StudentID
	}
	return subject
}
