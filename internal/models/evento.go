package models

import (
	"time"

	"gorm.io/gorm"
)

type TipoEvento string

const (
	EventoJogo    TipoEvento = "JOGO"
	EventoInterno TipoEvento = "INTERNO"
)

type StatusRSVP string

const (
	RSVPVou    StatusRSVP = "VOU"
	RSVPNaoVou StatusRSVP = "NAO_VOU"
	RSVPTalvez StatusRSVP = "TALVEZ"
)

type StatusPresenca string

const (
	PresencaPresente    StatusPresenca = "PRESENTE"
	PresencaAtraso      StatusPresenca = "ATRASO"
	PresencaAusente     StatusPresenca = "AUSENTE"
	PresencaJustificado StatusPresenca = "JUSTIFICADO"
)

type Evento struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Tipo      TipoEvento `gorm:"size:16;not null" json:"tipo"`
	DataHora  time.Time  `gorm:"index;not null" json:"dataHora"`
	Local     string     `gorm:"not null" json:"local"`
	Descricao *string    `json:"descricao"`
	CriadoPor *string    `gorm:"size:36" json:"criadoPor"`
	CriadoEm  time.Time  `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Evento) TableName() string { return "eventos" }

func (e *Evento) BeforeCreate(*gorm.DB) error {
	novoID(&e.ID)
	return nil
}

// ConfirmacaoEvento é o RSVP do membro; no máximo uma por (evento, membro).
type ConfirmacaoEvento struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	EventoID     string     `gorm:"size:36;not null;uniqueIndex:idx_confirmacao_evento_membro" json:"eventoId"`
	MembroID     string     `gorm:"size:36;not null;uniqueIndex:idx_confirmacao_evento_membro" json:"membroId"`
	Status       StatusRSVP `gorm:"size:16;not null" json:"status"`
	Convidados   int        `gorm:"not null" json:"convidados"`
	AtualizadoEm time.Time  `gorm:"autoUpdateTime" json:"atualizadoEm"`
}

func (ConfirmacaoEvento) TableName() string { return "confirmacoes_evento" }

func (c *ConfirmacaoEvento) BeforeCreate(*gorm.DB) error {
	novoID(&c.ID)
	return nil
}

type PresencaEvento struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	EventoID   string         `gorm:"size:36;not null;uniqueIndex:idx_presenca_evento_membro" json:"eventoId"`
	MembroID   string         `gorm:"size:36;not null;uniqueIndex:idx_presenca_evento_membro" json:"membroId"`
	Status     StatusPresenca `gorm:"size:16;not null" json:"status"`
	MarcadoPor *string        `gorm:"size:36" json:"marcadoPor"`
	MarcadoEm  time.Time      `json:"marcadoEm"`
}

func (PresencaEvento) TableName() string { return "presencas_evento" }

func (p *PresencaEvento) BeforeCreate(*gorm.DB) error {
	novoID(&p.ID)
	return nil
}

// Ponto do ranking. Referencia é a data do evento que gerou a pontuação.
type Ponto struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MembroID   string    `gorm:"size:36;not null;index" json:"membroId"`
	EventoID   *string   `gorm:"size:36;index" json:"eventoId"`
	Pontos     int       `gorm:"not null" json:"pontos"`
	Motivo     string    `gorm:"not null" json:"motivo"`
	Referencia time.Time `gorm:"index" json:"referencia"`
	CriadoEm   time.Time `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Ponto) TableName() string { return "pontos" }

func (p *Ponto) BeforeCreate(*gorm.DB) error {
	novoID(&p.ID)
	return nil
}
