package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/config"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 7 * 24 * time.Hour

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(userID uint) (*dto.UserResponse, error)
	// ParseToken validates a bearer token and resolves the caller identity.
	ParseToken(token string) (*model.Caller, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo, jwtSecret: []byte(cfg.Auth.JWTSecret)}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := model.Role(req.Role)
	if !model.ValidRole(role) {
		return nil, apperr.Validationf("unknown role %q", req.Role)
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperr.Validationf("username %q is already taken", req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperr.Validationf("email %q is already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validationf("username or email is already registered")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	log.Info().Uint("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.buildAuthResponse(&user, "registration successful")
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorizedf("invalid username or password")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorizedf("invalid username or password")
	}

	log.Info().Uint("userID", user.ID).Msg("User logged in")
	return s.buildAuthResponse(user, "login successful")
}

func (s *authService) Me(userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d does not exist", userID)
		}
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("copying user to response: %w", err)
	}
	return &resp, nil
}

func (s *authService) ParseToken(token string) (*model.Caller, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthorizedf("invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorizedf("invalid token claims")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, apperr.Unauthorizedf("invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok || !model.ValidRole(model.Role(role)) {
		return nil, apperr.Unauthorizedf("invalid token claims")
	}

	return &model.Caller{UserID: uint(id), Role: model.Role(role)}, nil
}

func (s *authService) buildAuthResponse(user *model.User, message string) (*dto.AuthResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	resp := dto.AuthResponse{Message: message, Token: signed}
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, fmt.Errorf("copying user to response: %w", err)
	}
	return &resp, nil
}
