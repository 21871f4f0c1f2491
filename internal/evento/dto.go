package evento

import (
	"time"

	"github.com/patotaccc/api-patota/internal/financeiro"
	"github.com/patotaccc/api-patota/internal/models"
)

// EventoDTO é o evento com a contagem de VOU e o RSVP de quem pergunta.
type EventoDTO struct {
	models.Evento
	Confirmados      int64              `json:"confirmados"`
	MinhaConfirmacao *models.StatusRSVP `json:"minhaConfirmacao"`
}

type DetalheEvento struct {
	EventoDTO
	MeusConvidados int `json:"meusConvidados"`
}

type Inicio struct {
	ProximoEvento *EventoDTO            `json:"proximoEvento"`
	Pendencias    financeiro.Pendencias `json:"pendencias"`
}

type Painel struct {
	ProximosEventos     []EventoDTO                       `json:"proximosEventos"`
	PagamentosPendentes []financeiro.PagamentoPendenteDTO `json:"pagamentosPendentes"`
}

type RSVPRequest struct {
	Status models.StatusRSVP `json:"status" validate:"required,oneof=VOU NAO_VOU TALVEZ"`
}

type ConvidadosRequest struct {
	Quantidade *int `json:"quantidade" validate:"required,gte=0"`
}

type ConvidadosResponse struct {
	Confirmacao models.ConfirmacaoEvento `json:"confirmacao"`
	Multa       *models.Multa            `json:"multa"`
}

type CriarEventoRequest struct {
	Tipo      models.TipoEvento `json:"tipo" validate:"required,oneof=JOGO INTERNO"`
	DataHora  time.Time         `json:"dataHora" validate:"required"`
	Local     string            `json:"local" validate:"required"`
	Descricao *string           `json:"descricao"`
}
