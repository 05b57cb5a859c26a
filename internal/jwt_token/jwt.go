package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"anonmsg/internal/auth/models"
	id "anonmsg/pkg/domain"
	dErrors "anonmsg/pkg/domain-errors"
)

var (
	ErrTokenExpired = dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
)

// Claims is the session token payload: the user in sub and a unique jti so
// a single token can be revoked.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// IssueSessionToken signs a token for userID valid from now for ttl.
func (s *JWTService) IssueSessionToken(userID id.UserID, now time.Time, ttl time.Duration) (string, *models.SessionClaims, error) {
	jti := uuid.NewString()
	expiresAt := now.Add(ttl)
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        jti,
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signedToken, &models.SessionClaims{UserID: userID, JTI: jti, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// ValidateToken verifies signature, issuer and expiry against now.
func (s *JWTService) ValidateToken(tokenString string, now time.Time) (*models.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &models.SessionClaims{
		UserID:    userID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
