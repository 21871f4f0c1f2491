package config

import "errors"

var errJWTSecret = errors.New("JWT_SECRET não definida")
