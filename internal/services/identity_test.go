package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/requestdata"
)

const testSecret = "identity-test-secret"

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func signToken(t *testing.T, secret, subject string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSetContextFromToken(t *testing.T) {
	svc := NewIdentityService(newTestLogger(t), testSecret)
	userID := uuid.New()

	ctx, err := svc.SetContextFromToken(context.Background(),
		signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		t.Fatalf("expected user %s attached, got %+v", userID, rd)
	}
}

func TestSetContextFromToken_Rejections(t *testing.T) {
	svc := NewIdentityService(newTestLogger(t), testSecret)
	userID := uuid.New()

	cases := map[string]string{
		"empty token":   "",
		"wrong secret":  signToken(t, "other-secret", userID.String(), time.Now().Add(time.Hour)),
		"expired":       signToken(t, testSecret, userID.String(), time.Now().Add(-time.Minute)),
		"bad subject":   signToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour)),
		"garbage token": "not.a.jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			ctx, err := svc.SetContextFromToken(context.Background(), token)
			if err == nil {
				t.Fatalf("expected error")
			}
			if rd := requestdata.GetRequestData(ctx); rd != nil {
				t.Fatalf("no identity must be attached on failure")
			}
		})
	}
}
