package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

const sessionTTL = 24 * time.Hour

// AdminAuth gates the admin panel behind a single password and issues signed
// session tokens. When a PHC-format argon2id hash is configured it takes
// precedence over the plain password.
type AdminAuth struct {
	secret       []byte
	password     string
	passwordHash string
}

func NewAdminAuth(secret, password, passwordHash string) *AdminAuth {
	return &AdminAuth{
		secret:       []byte(secret),
		password:     password,
		passwordHash: passwordHash,
	}
}

type sessionClaims struct {
	Sub string `json:"sub"`
	Jti string `json:"jti"`
	Iat int64  `json:"iat"`
	Exp int64  `json:"exp"`
}

// Login checks the password and returns a signed session token on success.
func (a *AdminAuth) Login(password string) (string, error) {
	if !a.checkPassword(password) {
		return "", fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	claims := sessionClaims{
		Sub: "admin",
		Jti: uuid.NewString(),
		Iat: now.Unix(),
		Exp: now.Add(sessionTTL).Unix(),
	}
	return a.sign(claims)
}

// Verify validates a session token's signature and expiry.
func (a *AdminAuth) Verify(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid token format")
	}

	expectedSig := a.hmacSign([]byte(parts[0]))
	actualSig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("invalid signature encoding")
	}
	if subtle.ConstantTimeCompare(expectedSig, actualSig) != 1 {
		return fmt.Errorf("invalid signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return fmt.Errorf("invalid payload encoding")
	}

	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return fmt.Errorf("invalid claims: %w", err)
	}

	if time.Now().Unix() > claims.Exp {
		return fmt.Errorf("session expired")
	}

	return nil
}

func (a *AdminAuth) checkPassword(password string) bool {
	if a.passwordHash != "" {
		return verifyArgon2(password, a.passwordHash)
	}
	if a.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
}

func (a *AdminAuth) sign(claims sessionClaims) (string, error) {
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(claimsJSON)
	sig := base64.RawURLEncoding.EncodeToString(a.hmacSign([]byte(payload)))
	return payload + "." + sig, nil
}

func (a *AdminAuth) hmacSign(data []byte) []byte {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write(data)
	return mac.Sum(nil)
}

// verifyArgon2 checks a password against a PHC-format argon2id hash.
// Format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func verifyArgon2(password, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	paramParts := strings.Split(parts[3], ",")
	if len(paramParts) != 3 {
		return false
	}

	memory, err := parseParam(paramParts[0], "m=")
	if err != nil {
		return false
	}
	iterations, err := parseParam(paramParts[1], "t=")
	if err != nil {
		return false
	}
	parallelism, err := parseParam(paramParts[2], "p=")
	if err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, uint32(iterations), uint32(memory), uint8(parallelism), uint32(len(expectedHash)))
	return subtle.ConstantTimeCompare(computed, expectedHash) == 1
}

func parseParam(s, prefix string) (int, error) {
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("missing prefix %s", prefix)
	}
	return strconv.Atoi(s[len(prefix):])
}
