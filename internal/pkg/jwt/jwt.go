package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const jobTokenType = "job"

type Service interface {
	// GenerateJobToken signs a token that lets its holder stop or watch
	// one job.
	GenerateJobToken(jobID string) (token string, expiresAt int64, err error)
	// ValidateJobToken returns the job id the token was issued for.
	ValidateJobToken(tokenString string) (jobID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
	skew      time.Duration
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, ttl time.Duration) Service {
	skew := 30 * time.Second
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(skew)),
		ttl:       ttl,
		skew:      skew,
	}
}

func (j *JWTService) GenerateJobToken(jobID string) (token string, expiresAt int64, err error) {
	now := time.Now()
	expiresAt = now.Add(j.ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"job_id": jobID,
		"type":   jobTokenType,
		"iat":    now.Unix(),
		"exp":    expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ValidateJobToken(tokenString string) (jobID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %w", run.ErrInvalidJobToken, err)
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(j.skew)); err != nil {
		return "", fmt.Errorf("%w: %w", run.ErrInvalidJobToken, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != jobTokenType {
		return "", run.ErrInvalidJobToken
	}

	jobIDVal, ok := token.Get("job_id")
	if !ok {
		return "", run.ErrInvalidJobToken
	}
	jobID, ok = jobIDVal.(string)
	if !ok || jobID == "" {
		return "", run.ErrInvalidJobToken
	}

	return jobID, nil
}
