package utils

import (
    "time"

    "github.com/golang-jwt/jwt/v5"

    "github.com/cineseat/ticketing/internal/model"
)

// AccessToken is a signed HS256 JWT plus its expiry, returned to clients on
// register and login.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// NewAccessToken signs a JWT carrying the user ID as subject and the user's
// role as a custom claim.  TTL is expressed in minutes.
func NewAccessToken(secret string, userID uint64, role model.Role, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": string(role),
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
