package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-rag/internal/dto"
	"restaurant-rag/internal/models"
	"restaurant-rag/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorExists     = errors.New("operator already exists")
)

const minPasswordLength = 8

type AuthService struct {
	operators  OperatorStore
	catalog    Catalog
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(operators OperatorStore, catalog Catalog, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		operators:  operators,
		catalog:    catalog,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates an operator bound to one existing restaurant.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < minPasswordLength {
		return nil, ErrInvalidInput
	}
	if _, err := activeRestaurant(ctx, s.catalog, req.RestaurantID); err != nil {
		return nil, err
	}

	existing, err := s.operators.GetOperatorByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOperatorExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	op := &models.Operator{
		ID:           uuid.New(),
		RestaurantID: req.RestaurantID,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.operators.CreateOperator(ctx, op); err != nil {
		return nil, err
	}

	s.logger.Info("Operator registered",
		zap.String("operator_id", op.ID.String()),
		zap.Int64("restaurant_id", op.RestaurantID),
	)
	return s.issueTokens(op)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	op, err := s.operators.GetOperatorByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, op.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(op)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	operatorID, err := uuid.Parse(claims.OperatorID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	op, err := s.operators.GetOperatorByID(ctx, operatorID)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	return s.issueTokens(op)
}

func (s *AuthService) issueTokens(op *models.Operator) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(op.ID.String(), op.RestaurantID, op.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(op.ID.String(), op.RestaurantID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		Operator: dto.OperatorResponse{
			ID:           op.ID.String(),
			RestaurantID: op.RestaurantID,
			Email:        op.Email,
		},
	}, nil
}
