package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Venkatesan-2007/innertia/core"
)

var (
	salt    = []byte("innertia.core.user.token_gen")
	NowFunc = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID base64-encodes a User ID for use in password reset links.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// MakeToken generates a password reset token for a given User.
// The token is invalidated by a password change, a login or expiry.
func MakeToken(usr User) string {
	return makeTokenWithTimestamp(usr, hoursSince2001(NowFunc()))
}

// verifyToken checks that a password reset token for a given User is valid.
func verifyToken(usr User, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}
	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return errInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	// check that the token has not been tampered with
	expected := makeTokenWithTimestamp(usr, ts)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return errInvalidToken
	}

	// check that the timestamp is within limit
	maxAge := int(core.Conf.Server.PasswordResetTimeoutDelta / time.Hour)
	if hoursSince2001(NowFunc())-ts > maxAge {
		return errTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(usr User, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, signUserState(usr, ts))
}

// signUserState HMACs the parts of the user state that change on password
// reset or login, so issued tokens become single-use.
func signUserState(usr User, ts int) string {
	mac := hmac.New(sha256.New, append(salt, []byte(core.Conf.SecretKey)...))
	mac.Write([]byte(usr.ID))
	mac.Write(usr.PasswordHash)
	mac.Write([]byte(usr.LastLogin.UTC().Format(time.RFC3339)))
	mac.Write([]byte(strconv.Itoa(ts)))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

func hoursSince2001(t time.Time) int {
	ref := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	return int(t.UTC().Sub(ref) / time.Hour)
}
