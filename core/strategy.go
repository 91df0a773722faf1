package core

import (
	"errors"
	"strings"
)

// NewStrategy builds the strategy named in cfg.AuthStrategy.
func NewStrategy(cfg Config, users UserRepository, permissions PermissionLoader) (Strategy, error) {
	switch strings.ToLower(cfg.AuthStrategy) {
	case "", "basic":
		return NewBasicStrategy(users, permissions), nil
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, errors.New("jwt strategy requires JWT_SECRET")
		}
		return NewJWTStrategy(users, permissions, cfg.JWTSecret, cfg.JWTIssuer), nil
	default:
		return nil, ErrUnknownStrategy
	}
}
