package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/dto"
	"github.com/foodgram/foodgram-backend/internal/logger"
	"github.com/foodgram/foodgram-backend/internal/normalization"
	"github.com/foodgram/foodgram-backend/internal/repos"
	"github.com/foodgram/foodgram-backend/internal/requestdata"
	"github.com/foodgram/foodgram-backend/internal/types"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*types.User, error) {
	email := normalization.ParseInputString(req.Email)
	username := normalization.ParseInputString(req.Username)
	if email == "" || username == "" {
		return nil, apierr.Validation("email and username are required")
	}
	if req.Password == "" {
		return nil, apierr.Validation("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Password:  string(hashed),
		FirstName: normalization.TrimInputString(req.FirstName),
		LastName:  normalization.TrimInputString(req.LastName),
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		emailTaken, exErr := as.userRepo.EmailExists(ctx, tx, email)
		if exErr != nil {
			return apierr.Internal(exErr)
		}
		if emailTaken {
			return apierr.Validation("email %q is already registered", email)
		}
		usernameTaken, exErr := as.userRepo.UsernameExists(ctx, tx, username)
		if exErr != nil {
			return apierr.Internal(exErr)
		}
		if usernameTaken {
			return apierr.Validation("username %q is already taken", username)
		}
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			if errors.Is(cErr, gorm.ErrDuplicatedKey) {
				return apierr.Validation("email or username is already taken")
			}
			return apierr.Internal(cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("User registered", "user_id", user.ID.String())
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalization.ParseInputString(email)
	if email == "" || password == "" {
		return "", "", apierr.Validation("email and password are required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", apierr.Internal(err)
	}
	if len(users) == 0 {
		return "", "", apierr.Unauthorized("invalid email or password")
	}
	user := users[0]

	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", apierr.Unauthorized("invalid email or password")
	}

	var accessToken string
	var refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return apierr.Internal(ftErr)
		}
		expired := make([]*types.UserToken, 0, len(existing))
		for _, tok := range existing {
			if tok != nil && tok.ExpiresAt.Before(time.Now()) {
				expired = append(expired, tok)
			}
		}
		if len(expired) > 0 {
			if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, expired); dErr != nil {
				return apierr.Internal(dErr)
			}
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return apierr.Internal(genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()

		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); cErr != nil {
			return apierr.Internal(cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", apierr.Unauthorized("refresh token missing")
	}

	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if ftErr != nil {
			return apierr.Internal(ftErr)
		}
		if len(found) == 0 || found[0] == nil {
			return apierr.Unauthorized("unknown refresh token")
		}
		existing := found[0]

		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); dErr != nil {
				return apierr.Internal(dErr)
			}
			return apierr.Unauthorized("refresh token expired")
		}

		users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if uErr != nil {
			return apierr.Internal(uErr)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("no user for refresh token")
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return apierr.Internal(genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()

		replacement := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  tok,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{replacement}); cErr != nil {
			return apierr.Internal(cErr)
		}
		if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); dErr != nil {
			return apierr.Internal(dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("not logged in")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if ftErr != nil {
			return apierr.Internal(ftErr)
		}
		if len(found) == 0 {
			return nil
		}
		if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, found); dErr != nil {
			return apierr.Internal(dErr)
		}
		return nil
	})
}

// SetContextFromToken validates the bearer token and attaches the caller's
// identity to the context. An empty token passes through unchanged so
// optional-auth routes can share this path.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.Unauthorized("unexpected signing method")
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Unauthorized("invalid token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid subject in token")
	}

	found, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if ftErr != nil {
		return ctx, apierr.Internal(ftErr)
	}
	if len(found) == 0 || found[0] == nil {
		return ctx, apierr.Unauthorized("token revoked")
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
