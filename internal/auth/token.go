package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Claims do access token. Admin é só informativo para o front; a autorização
// de rotas admin passa sempre pelo Gate.
type Claims struct {
	MembroID string `json:"membroId"`
	SessaoID string `json:"sessaoId"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Emissor assina e valida access tokens HS256.
type Emissor struct {
	segredo  []byte
	issuer   string
	audience string
	TTL      time.Duration
	agora    func() time.Time
}

func NovoEmissor(segredo, issuer, audience string, ttl time.Duration) *Emissor {
	return &Emissor{
		segredo:  []byte(segredo),
		issuer:   issuer,
		audience: audience,
		TTL:      ttl,
		agora:    time.Now,
	}
}

// Gerar emite o token com iss, aud, iat, nbf, exp e jti.
func (e *Emissor) Gerar(membroID, sessaoID string, admin bool) (string, error) {
	now := e.agora()
	claims := &Claims{
		MembroID: membroID,
		SessaoID: sessaoID,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    e.issuer,
			Audience:  jwt.ClaimStrings{e.audience},
			Subject:   membroID,
			ExpiresAt: jwt.NewNumericDate(now.Add(e.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.segredo)
}

// Validar confere assinatura, iss, aud e exp.
func (e *Emissor) Validar(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(e.issuer),
		jwt.WithAudience(e.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(e.agora),
	)
	tok, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return e.segredo, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "token inválido")
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("claims inválidas")
	}
	if c.MembroID == "" || c.SessaoID == "" {
		return nil, errors.New("token sem sessão")
	}
	return c, nil
}
