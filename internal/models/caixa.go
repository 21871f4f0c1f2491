package models

import (
	"time"

	"gorm.io/gorm"
)

type TipoLancamento string

const (
	LancamentoEntrada TipoLancamento = "ENTRADA"
	LancamentoSaida   TipoLancamento = "SAIDA"
)

// Categorias aceitas por direção do lançamento.
var CategoriasCaixa = map[TipoLancamento][]string{
	LancamentoEntrada: {"MENSALIDADE", "MULTA", "CONVIDADO", "ARRECADACAO", "OUTRO"},
	LancamentoSaida:   {"CAMPO", "ARBITRAGEM", "BOLA", "OUTRO"},
}

type LancamentoCaixa struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Tipo           TipoLancamento `gorm:"size:8;not null" json:"tipo"`
	Categoria      string         `gorm:"size:16;not null" json:"categoria"`
	Valor          float64        `gorm:"not null" json:"valor"`
	Descricao      *string        `json:"descricao"`
	ReferenciaID   *string        `gorm:"size:36;index" json:"referenciaId"`
	ReferenciaTipo *string        `gorm:"size:16" json:"referenciaTipo"`
	DataLancamento time.Time      `gorm:"index;not null" json:"dataLancamento"`
	LancadoPor     *string        `gorm:"size:36" json:"lancadoPor"`
	CriadoEm       time.Time      `gorm:"autoCreateTime" json:"criadoEm"`
}

func (LancamentoCaixa) TableName() string { return "lancamentos_caixa" }

func (l *LancamentoCaixa) BeforeCreate(*gorm.DB) error {
	novoID(&l.ID)
	return nil
}
