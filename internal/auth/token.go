package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

var errNotAnObject = errors.New("token payload is not an object")

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeTokenPayload returns the claims carried in the second segment of a
// bearer token. The signature is not verified; the backend does that on
// every request the token is presented with.
//
// Malformed input logs a single error and yields nil.
func DecodeTokenPayload(logger *zap.Logger, token string) jwt.MapClaims {
	claims, err := decodePayload(token)
	if err != nil {
		logger.Error("Failed to decode token payload", zap.Error(err))
		return nil
	}
	return claims
}

func decodePayload(token string) (jwt.MapClaims, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return nil, fmt.Errorf("token has %d segment(s), want at least 2", len(segments))
	}

	raw, err := segmentParser.DecodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("decoding payload segment: %w", err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	if claims == nil {
		return nil, errNotAnObject
	}
	return claims, nil
}

// IdentityFromClaims extracts the employee id claim. A nil payload and a
// payload without a usable id are the same failure.
func IdentityFromClaims(claims jwt.MapClaims) (string, bool) {
	if claims == nil {
		return "", false
	}
	id, ok := claims[domain.IdentityClaim].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// IdentityFromToken decodes the token and returns the caller identity.
func IdentityFromToken(logger *zap.Logger, token string) (domain.Identity, bool) {
	id, ok := IdentityFromClaims(DecodeTokenPayload(logger, token))
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{EmployeeID: id, Token: token}, true
}
