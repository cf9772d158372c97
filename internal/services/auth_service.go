package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

const tokenIssuer = "learning-service"

// AuthService registers students and issues the bearer tokens every
// student-scoped route requires.
type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	Me(ctx context.Context, studentID uint) (*models.Student, error)
	ValidateToken(token string) (*Claims, error)
}

type SignupRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email,min=5,max=200"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	TargetExam string `json:"target_exam" validate:"omitempty,exam_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	StudentID   uint      `json:"student_id"`
	Name        string    `json:"name"`
	TargetExam  string    `json:"target_exam"`
}

// Claims are the JWT claims of an access token. Subject is the student id.
type Claims struct {
	StudentID uint   `json:"student_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	secret    []byte
	ttl       time.Duration
	logger    *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewAuthService(repo repositories.Repository, secret string, ttl time.Duration, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		secret:    []byte(secret),
		ttl:       ttl,
		logger:    NewServiceLogger(logger, "auth"),
		validator: validator,
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	op := s.logger.WithOperation(ctx, "signup", 0)

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	existing, err := s.repo.Student().GetByEmail(ctx, req.Email)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		op.LogResult(ErrEmailTaken)
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		TargetExam:   req.TargetExam,
	}
	if err := s.repo.Student().Create(ctx, student); err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	resp, err := s.issue(student)
	if err != nil {
		op.LogResult(err)
		return nil, err
	}
	op.LogResult(nil, "new_student_id", student.ID)
	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	op := s.logger.WithOperation(ctx, "login", 0)

	if err := s.validator.Validate(req); err != nil {
		err = validationFailure(err)
		op.LogResult(err)
		return nil, err
	}

	student, err := s.repo.Student().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		op.LogResult(err)
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		op.LogResult(ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		op.LogResult(ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issue(student)
	if err != nil {
		op.LogResult(err)
		return nil, err
	}
	op.LogResult(nil, "logged_in_student_id", student.ID)
	return resp, nil
}

func (s *authService) Me(ctx context.Context, studentID uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *authService) issue(student *models.Student) (*TokenResponse, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	claims := &Claims{
		StudentID: student.ID,
		Email:     student.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(student.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expires,
		StudentID:   student.ID,
		Name:        student.Name,
		TargetExam:  student.TargetExam,
	}, nil
}

// ValidateToken parses an HS256 access token and checks its expiry and subject.
func (s *authService) ValidateToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uint(sub) != claims.StudentID || claims.StudentID == 0 {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
