// Package token issues and checks the JWTs that clients use to act on a game
// session.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the issuer of every token the server creates.
	Issuer = "nrs"

	// Lifetime is how long a token is valid after it is issued.
	Lifetime = 24 * time.Hour
)

// Get gets the token from the Authorization header of req. The header must be
// in Bearer format.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Generate creates a signed token that grants access to the given session.
func Generate(secret []byte, s dao.Session) (string, error) {
	claims := &jwt.MapClaims{
		"iss":   Issuer,
		"exp":   time.Now().Add(Lifetime).Unix(),
		"sub":   s.ID.String(),
		"world": s.WorldID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, s))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// Validate checks tok and returns the session it grants access to. A token
// for a session that no longer exists is invalid.
func Validate(ctx context.Context, tok string, secret []byte, db dao.SessionRepository) (dao.Session, error) {
	var sess dao.Session

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		sess, err = db.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signKey(secret, sess), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Session{}, err
	}

	return sess, nil
}

// signKey is unique to each session so that a session that is deleted and
// somehow recreated with the same ID does not accept old tokens.
func signKey(secret []byte, s dao.Session) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(s.WorldID.String())...)
	key = append(key, []byte(fmt.Sprintf("%d", s.Created.Unix()))...)
	return key
}
