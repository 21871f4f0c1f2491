package caixa

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/patotaccc/api-patota/internal/models"
)

// Relatorio faz as agregações do caixa direto em SQL.
type Relatorio struct {
	DB *sqlx.DB
}

func NewRelatorio(db *sqlx.DB) *Relatorio {
	return &Relatorio{DB: db}
}

const sqlSaldo = `
SELECT
	COALESCE(SUM(CASE WHEN tipo = ? THEN valor ELSE 0 END), 0) AS total_entradas,
	COALESCE(SUM(CASE WHEN tipo = ? THEN valor ELSE 0 END), 0) AS total_saidas
FROM lancamentos_caixa`

func (r *Relatorio) Saldo(ctx context.Context) (Saldo, error) {
	var s Saldo
	q := r.DB.Rebind(sqlSaldo)
	if err := r.DB.GetContext(ctx, &s, q, models.LancamentoEntrada, models.LancamentoSaida); err != nil {
		return Saldo{}, errors.Wrap(err, "calculando saldo")
	}
	s.SaldoAtual = s.TotalEntradas - s.TotalSaidas
	return s, nil
}

type linhaLancamento struct {
	Tipo           string    `db:"tipo"`
	Valor          float64   `db:"valor"`
	DataLancamento time.Time `db:"data_lancamento"`
}

// ResumoMensal agrupa por mês de data_lancamento, mais recente primeiro. O
// agrupamento é feito aqui para funcionar igual no Postgres e no SQLite.
func (r *Relatorio) ResumoMensal(ctx context.Context) ([]ResumoMes, error) {
	var linhas []linhaLancamento
	if err := r.DB.SelectContext(ctx, &linhas, `SELECT tipo, valor, data_lancamento FROM lancamentos_caixa`); err != nil {
		return nil, errors.Wrap(err, "lendo lançamentos")
	}

	porMes := map[string]*ResumoMes{}
	for _, l := range linhas {
		mes := l.DataLancamento.UTC().Format("2006-01")
		rm, ok := porMes[mes]
		if !ok {
			rm = &ResumoMes{Mes: mes}
			porMes[mes] = rm
		}
		if models.TipoLancamento(l.Tipo) == models.LancamentoEntrada {
			rm.Entradas += l.Valor
		} else {
			rm.Saidas += l.Valor
		}
	}

	out := make([]ResumoMes, 0, len(porMes))
	for _, rm := range porMes {
		rm.SaldoMes = rm.Entradas - rm.Saidas
		out = append(out, *rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mes > out[j].Mes })
	return out, nil
}
