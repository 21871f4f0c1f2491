package financeiro

import (
	"time"

	"github.com/patotaccc/api-patota/internal/models"
)

// MultaDTO traz o tipo e a data do evento que gerou a multa.
type MultaDTO struct {
	models.Multa
	EventoTipo *models.TipoEvento `json:"eventoTipo"`
	EventoData *time.Time         `json:"eventoData"`
}

type Pix struct {
	Chave string `json:"chave"`
	Nome  string `json:"nome"`
}

type ResumoFinanceiro struct {
	Mensalidades  []models.Mensalidade `json:"mensalidades"`
	Multas        []MultaDTO           `json:"multas"`
	Pagamentos    []models.Pagamento   `json:"pagamentos"`
	TotalPendente float64              `json:"totalPendente"`
	Pix           Pix                  `json:"pix"`
}

// Pendencias é o resumo da tela inicial.
type Pendencias struct {
	MensalidadesPendentes int     `json:"mensalidadesPendentes"`
	ValorMensalidades     float64 `json:"valorMensalidades"`
	MultasPendentes       int     `json:"multasPendentes"`
	ValorMultas           float64 `json:"valorMultas"`
	Total                 float64 `json:"total"`
}

// PagamentoPendenteDTO é a linha da fila de confirmação do admin.
type PagamentoPendenteDTO struct {
	models.Pagamento
	MembroNome  string  `json:"membroNome"`
	Competencia *string `json:"competencia"`
	MultaTipo   *string `json:"multaTipo"`
}

type GerarMensalidadesRequest struct {
	Competencia string   `json:"competencia" validate:"required,competencia"`
	Valor       *float64 `json:"valor" validate:"omitempty,gte=0"`
	Vencimento  *string  `json:"vencimento" validate:"omitempty,datetime=2006-01-02"`
}

type GerarMensalidadesResponse struct {
	Competencia string `json:"competencia"`
	Criadas     int    `json:"criadas"`
}

type IsencaoRequest struct {
	MembroID    string               `json:"membroId" validate:"required"`
	Competencia string               `json:"competencia" validate:"required,competencia"`
	Motivo      models.MotivoIsencao `json:"motivo" validate:"required,oneof=LESAO TRABALHO"`
}

type IsencaoResponse struct {
	Isencao               models.Isencao `json:"isencao"`
	MensalidadeAtualizada bool           `json:"mensalidadeAtualizada"`
	PagamentosRejeitados  int64          `json:"pagamentosRejeitados"`
}
