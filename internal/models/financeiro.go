package models

import (
	"time"

	"gorm.io/gorm"
)

type StatusMensalidade string

const (
	MensalidadePendente StatusMensalidade = "PENDENTE"
	MensalidadePago     StatusMensalidade = "PAGO"
	MensalidadeIsento   StatusMensalidade = "ISENTO"
)

type TipoMulta string

const (
	MultaAtraso          TipoMulta = "ATRASO"
	MultaFaltaConfirmada TipoMulta = "FALTA_CONFIRMADA"
	MultaConvidado       TipoMulta = "CONVIDADO"
)

type StatusPagamento string

const (
	PagamentoPendente   StatusPagamento = "PENDENTE"
	PagamentoConfirmado StatusPagamento = "CONFIRMADO"
	PagamentoRejeitado  StatusPagamento = "REJEITADO"
)

type MotivoIsencao string

const (
	IsencaoLesao    MotivoIsencao = "LESAO"
	IsencaoTrabalho MotivoIsencao = "TRABALHO"
)

// Mensalidade de um membro numa competência (AAAA-MM).
type Mensalidade struct {
	ID           string            `gorm:"primaryKey;size:36" json:"id"`
	MembroID     string            `gorm:"size:36;not null;uniqueIndex:idx_mensalidade_membro_competencia" json:"membroId"`
	Competencia  string            `gorm:"size:7;not null;uniqueIndex:idx_mensalidade_membro_competencia" json:"competencia"`
	Vencimento   time.Time         `json:"vencimento"`
	Valor        float64           `gorm:"not null" json:"valor"`
	Status       StatusMensalidade `gorm:"size:16;not null;index" json:"status"`
	CriadoEm     time.Time         `gorm:"autoCreateTime" json:"criadoEm"`
	AtualizadoEm time.Time         `gorm:"autoUpdateTime" json:"atualizadoEm"`
}

func (Mensalidade) TableName() string { return "mensalidades" }

func (m *Mensalidade) BeforeCreate(*gorm.DB) error {
	novoID(&m.ID)
	return nil
}

type Isencao struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	MembroID    string        `gorm:"size:36;not null;index" json:"membroId"`
	Competencia string        `gorm:"size:7;not null" json:"competencia"`
	Motivo      MotivoIsencao `gorm:"size:16;not null" json:"motivo"`
	AprovadoPor *string       `gorm:"size:36" json:"aprovadoPor"`
	CriadoEm    time.Time     `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Isencao) TableName() string { return "isencoes" }

func (i *Isencao) BeforeCreate(*gorm.DB) error {
	novoID(&i.ID)
	return nil
}

type Multa struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MembroID   string    `gorm:"size:36;not null;index" json:"membroId"`
	EventoID   *string   `gorm:"size:36;index" json:"eventoId"`
	Tipo       TipoMulta `gorm:"size:24;not null" json:"tipo"`
	Valor      float64   `gorm:"not null" json:"valor"`
	Observacao *string   `json:"observacao"`
	CriadoPor  *string   `gorm:"size:36" json:"criadoPor"`
	CriadoEm   time.Time `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Multa) TableName() string { return "multas" }

func (m *Multa) BeforeCreate(*gorm.DB) error {
	novoID(&m.ID)
	return nil
}

// Pagamento referencia uma mensalidade ou uma multa.
type Pagamento struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	MembroID       string          `gorm:"size:36;not null;index" json:"membroId"`
	MensalidadeID  *string         `gorm:"size:36;index" json:"mensalidadeId"`
	MultaID        *string         `gorm:"size:36;index" json:"multaId"`
	Valor          float64         `gorm:"not null" json:"valor"`
	Status         StatusPagamento `gorm:"size:16;not null;index" json:"status"`
	ComprovanteURL *string         `json:"comprovanteUrl"`
	CriadoEm       time.Time       `gorm:"autoCreateTime" json:"criadoEm"`
	ConfirmadoPor  *string         `gorm:"size:36" json:"confirmadoPor"`
	ConfirmadoEm   *time.Time      `json:"confirmadoEm"`
}

func (Pagamento) TableName() string { return "pagamentos" }

func (p *Pagamento) BeforeCreate(*gorm.DB) error {
	novoID(&p.ID)
	return nil
}
