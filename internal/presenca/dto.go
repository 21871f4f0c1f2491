package presenca

import "github.com/patotaccc/api-patota/internal/models"

// Linha é um membro que respondeu ao evento, com a presença já marcada (se houver).
type Linha struct {
	MembroID       string                 `json:"membroId"`
	Nome           string                 `json:"nome"`
	Telefone       *string                `json:"telefone"`
	RSVPStatus     *models.StatusRSVP     `json:"rsvpStatus"`
	Convidados     int                    `json:"convidados"`
	PresencaStatus *models.StatusPresenca `json:"presencaStatus"`
}

type Resumo struct {
	Confirmados  int `json:"confirmados"`
	Convidados   int `json:"convidados"`
	Presentes    int `json:"presentes"`
	Atrasos      int `json:"atrasos"`
	Ausentes     int `json:"ausentes"`
	Justificados int `json:"justificados"`
}

type ListaPresenca struct {
	Evento models.Evento `json:"evento"`
	Linhas []Linha       `json:"linhas"`
	Resumo Resumo        `json:"resumo"`
}

type MarcarRequest struct {
	Status models.StatusPresenca `json:"status" validate:"required,oneof=PRESENTE ATRASO AUSENTE JUSTIFICADO"`
}

// ItemLote sem status é ignorado no salvamento em lote.
type ItemLote struct {
	MembroID string                 `json:"membroId" validate:"required"`
	Status   *models.StatusPresenca `json:"status" validate:"omitempty,oneof=PRESENTE ATRASO AUSENTE JUSTIFICADO"`
}

type LoteRequest struct {
	Presencas []ItemLote `json:"presencas" validate:"dive"`
}

// Marcacao é o resultado de marcar_presenca: a presença gravada e os efeitos
// que ficaram valendo para o membro nesse evento.
type Marcacao struct {
	Presenca models.PresencaEvento `json:"presenca"`
	Multas   []models.Multa        `json:"multas"`
	Pontos   []models.Ponto        `json:"pontos"`
}

// ErroLote conta quantas presenças foram gravadas antes da falha.
type ErroLote struct {
	Erro   string `json:"erro"`
	Salvas int    `json:"salvas"`
}
