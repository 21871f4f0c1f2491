package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashSegredo gera o hash bcrypt de um segredo (ex.: verificador do link mágico).
func HashSegredo(segredo string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(segredo), bcrypt.DefaultCost)
	return string(hash), err
}

// VerificarSegredo compara hash bcrypt com o segredo em texto puro.
func VerificarSegredo(hash, segredo string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(segredo)) == nil
}

// GerarToken devolve n bytes aleatórios em base64 URL-safe.
func GerarToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSHA256 é usado para tokens que precisam ser buscados pelo hash (refresh).
func HashSHA256(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}
