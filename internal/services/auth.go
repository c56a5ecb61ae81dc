package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	"github.com/espeakapp/espeak-backend/internal/data/repos/usertoken"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/ctxutil"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, username, email, password, fullName string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, accessToken string) (context.Context, error)
}

type authService struct {
	db     *gorm.DB
	log    *logger.Logger
	users  user.UserRepo
	tokens usertoken.UserTokenRepo

	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo, tokens usertoken.UserTokenRepo, jwtSecret string, accessTTL, refreshTTL time.Duration) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		db:         db,
		log:        serviceLog,
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (as *authService) Register(ctx context.Context, username, email, password, fullName string) (*types.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", apperr.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperr.ErrInvalidArgument)
	}

	var created *types.User
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := as.users.UsernameExists(ctx, tx, username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username already taken", apperr.ErrInvalidArgument)
		}

		taken, err = as.users.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email already registered", apperr.ErrInvalidArgument)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		users, err := as.users.Create(ctx, tx, []*types.User{
			{
				ID:               uuid.New(),
				Username:         username,
				Email:            email,
				PasswordHash:     string(hash),
				FullName:         fullName,
				IsActive:         true,
				SubscriptionTier: string(types.TierFree),
			},
		})
		if err != nil {
			return err
		}
		created = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("User registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*types.User, *TokenPair, error) {
	u, err := as.users.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, nil, fmt.Errorf("%w: account disabled", apperr.ErrForbidden)
	}

	pair, err := as.issueTokens(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	row, err := as.tokens.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown refresh token", apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if as.now().After(row.ExpiresAt) {
		_ = as.tokens.DeleteByID(ctx, nil, row.ID)
		return nil, fmt.Errorf("%w: refresh token expired", apperr.ErrUnauthorized)
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.tokens.DeleteByID(ctx, tx, row.ID); err != nil {
			return err
		}
		var txErr error
		pair, txErr = as.issueTokensTx(ctx, tx, row.UserID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apperr.ErrUnauthorized
	}
	row, err := as.tokens.GetByAccessToken(ctx, nil, rd.TokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return as.tokens.DeleteByID(ctx, nil, row.ID)
}

// SetContextFromToken validates the access token and stamps the request
// context with the caller's identity. A token whose session row has been
// deleted (logout) is rejected even if its signature is still valid.
func (as *authService) SetContextFromToken(ctx context.Context, accessToken string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid access token", apperr.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: malformed token subject", apperr.ErrUnauthorized)
	}

	if _, err := as.tokens.GetByAccessToken(ctx, nil, accessToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, fmt.Errorf("%w: session revoked", apperr.ErrUnauthorized)
		}
		return ctx, err
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: accessToken,
		UserID:      userID,
	}), nil
}

func (as *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	return as.issueTokensTx(ctx, nil, userID)
}

func (as *authService) issueTokensTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	now := as.now().UTC()
	accessExpires := now.Add(as.accessTTL)
	refreshExpires := now.Add(as.refreshTTL)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(accessExpires),
		ID:        uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()

	if _, err := as.tokens.Create(ctx, tx, []*types.UserToken{
		{
			ID:           uuid.New(),
			UserID:       userID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    refreshExpires,
		},
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpires,
	}, nil
}
