package caixa

import (
	"time"

	"github.com/patotaccc/api-patota/internal/models"
)

type LancamentoRequest struct {
	Tipo           models.TipoLancamento `json:"tipo" validate:"required,oneof=ENTRADA SAIDA"`
	Categoria      string                `json:"categoria" validate:"required"`
	Valor          float64               `json:"valor" validate:"gt=0"`
	Descricao      *string               `json:"descricao"`
	DataLancamento *time.Time            `json:"dataLancamento"`
}

type Saldo struct {
	TotalEntradas float64 `json:"totalEntradas" db:"total_entradas"`
	TotalSaidas   float64 `json:"totalSaidas" db:"total_saidas"`
	SaldoAtual    float64 `json:"saldoAtual" db:"saldo_atual"`
}

// LancamentoDTO é o lançamento com o nome de quem lançou ("Sistema" quando vazio).
type LancamentoDTO struct {
	models.LancamentoCaixa
	Autor string `json:"autor"`
}

type CaixaResponse struct {
	Saldo       Saldo           `json:"saldo"`
	Lancamentos []LancamentoDTO `json:"lancamentos"`
}

type ResumoMes struct {
	Mes      string  `json:"mes"`
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
	SaldoMes float64 `json:"saldoMes"`
}
