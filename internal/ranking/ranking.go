// Package ranking soma os pontos de presença por membro.
package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Visao string

const (
	VisaoMensal Visao = "mensal"
	VisaoGeral  Visao = "geral"
)

type Linha struct {
	MembroID       string `db:"membro_id" json:"membroId"`
	Nome           string `db:"nome" json:"nome"`
	TotalPontos    int    `db:"total_pontos" json:"totalPontos"`
	TotalPresencas int    `db:"total_presencas" json:"totalPresencas"`
	Posicao        int    `db:"-" json:"posicao"`
}

type Ranking struct {
	DB *sqlx.DB

	agora func() time.Time
}

func NewRanking(db *sqlx.DB) *Ranking {
	return &Ranking{DB: db, agora: func() time.Time { return time.Now().UTC() }}
}

const sqlRanking = `
SELECT m.id AS membro_id, m.nome AS nome,
	COALESCE(SUM(p.pontos), 0) AS total_pontos,
	COUNT(p.id) AS total_presencas
FROM pontos p
JOIN membros m ON m.id = p.membro_id
%s
GROUP BY m.id, m.nome
ORDER BY total_pontos DESC, m.nome ASC`

// Listar ordena por pontos; na visão mensal só conta pontos cuja referência
// cai no mês corrente. A posição é a ordem da lista, empates incluídos.
func (r *Ranking) Listar(ctx context.Context, visao Visao) ([]Linha, error) {
	var (
		filtro string
		args   []any
	)
	switch visao {
	case VisaoMensal:
		agora := r.agora()
		inicio := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, time.UTC)
		filtro = "WHERE p.referencia >= ? AND p.referencia < ?"
		args = append(args, inicio, inicio.AddDate(0, 1, 0))
	case VisaoGeral:
	default:
		return nil, errors.Errorf("visão desconhecida: %s", visao)
	}

	q := r.DB.Rebind(fmt.Sprintf(sqlRanking, filtro))
	var linhas []Linha
	if err := r.DB.SelectContext(ctx, &linhas, q, args...); err != nil {
		return nil, errors.Wrap(err, "calculando ranking")
	}
	for i := range linhas {
		linhas[i].Posicao = i + 1
	}
	if linhas == nil {
		linhas = []Linha{}
	}
	return linhas, nil
}
