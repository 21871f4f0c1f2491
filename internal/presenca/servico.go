// Package presenca registra a presença dos membros nos eventos e mantém as
// multas e pontos que dependem dela.
package presenca

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/evento"
	"github.com/patotaccc/api-patota/internal/financeiro"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

// MotivoPresencaJogo identifica os pontos dados por presença em jogo.
const MotivoPresencaJogo = "PRESENCA_JOGO"

type Servico struct {
	DB         *gorm.DB
	Repository Repository
	Eventos    evento.Repository
	Multas     financeiro.Repository
	Regras     config.Regras

	agora func() time.Time
}

func NovoServico(db *gorm.DB, regras config.Regras) *Servico {
	return &Servico{
		DB:         db,
		Repository: NewRepository(),
		Eventos:    evento.NewRepository(),
		Multas:     financeiro.NewRepository(),
		Regras:     regras,
		agora:      func() time.Time { return time.Now().UTC() },
	}
}

var ordemRSVP = map[models.StatusRSVP]int{
	models.RSVPVou:    0,
	models.RSVPTalvez: 1,
	models.RSVPNaoVou: 2,
}

func posicaoRSVP(s *models.StatusRSVP) int {
	if s == nil {
		return 99
	}
	if p, ok := ordemRSVP[*s]; ok {
		return p
	}
	return 99
}

// Listar monta a lista do evento: VOU, TALVEZ e NAO_VOU, depois por nome.
func (s *Servico) Listar(ctx context.Context, eventoID string) (*ListaPresenca, error) {
	db := s.DB.WithContext(ctx)
	ev, err := s.Eventos.BuscarPorID(db, eventoID)
	if err != nil {
		return nil, err
	}
	linhas, err := s.Repository.Linhas(db, eventoID)
	if err != nil {
		return nil, errors.Wrap(err, "listando presenças")
	}

	sort.SliceStable(linhas, func(i, j int) bool {
		pi, pj := posicaoRSVP(linhas[i].RSVPStatus), posicaoRSVP(linhas[j].RSVPStatus)
		if pi != pj {
			return pi < pj
		}
		return linhas[i].Nome < linhas[j].Nome
	})

	out := &ListaPresenca{Evento: *ev, Linhas: linhas}
	for _, l := range linhas {
		if l.RSVPStatus != nil && *l.RSVPStatus == models.RSVPVou {
			out.Resumo.Confirmados++
		}
		out.Resumo.Convidados += l.Convidados
		if l.PresencaStatus == nil {
			continue
		}
		switch *l.PresencaStatus {
		case models.PresencaPresente:
			out.Resumo.Presentes++
		case models.PresencaAtraso:
			out.Resumo.Atrasos++
		case models.PresencaAusente:
			out.Resumo.Ausentes++
		case models.PresencaJustificado:
			out.Resumo.Justificados++
		}
	}
	return out, nil
}

// MarcarPresenca grava a presença e acerta os efeitos dela numa transação só:
// ATRASO gera multa de atraso, AUSENTE de quem disse VOU gera multa de falta
// confirmada e PRESENTE em jogo dá pontos. Efeitos que deixaram de valer são
// removidos, menos multas que já têm pagamento.
func (s *Servico) MarcarPresenca(ctx context.Context, eventoID, membroID string, status models.StatusPresenca, adminID string) (*Marcacao, error) {
	var out *Marcacao
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := s.Eventos.BuscarPorID(tx, eventoID)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Membro{}).Where("id = ?", membroID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errors.Wrap(utils.ErrNaoEncontrado, "membro")
		}

		anterior, err := s.Repository.BuscarPresenca(tx, eventoID, membroID)
		if err != nil {
			return err
		}
		p, err := s.Repository.SalvarPresenca(tx, &models.PresencaEvento{
			EventoID:   eventoID,
			MembroID:   membroID,
			Status:     status,
			MarcadoPor: &adminID,
			MarcadoEm:  s.agora(),
		})
		if err != nil {
			return err
		}

		var rsvp *models.StatusRSVP
		if c, err := s.Eventos.BuscarConfirmacao(tx, eventoID, membroID); err == nil {
			rsvp = &c.Status
		} else if !errors.Is(err, utils.ErrNaoEncontrado) {
			return err
		}

		out = &Marcacao{Presenca: *p}
		atraso, err := s.reconciliarMulta(tx, ev, membroID, adminID, models.MultaAtraso,
			status == models.PresencaAtraso, s.Regras.MultaAtraso)
		if err != nil {
			return err
		}
		falta, err := s.reconciliarMulta(tx, ev, membroID, adminID, models.MultaFaltaConfirmada,
			status == models.PresencaAusente && rsvp != nil && *rsvp == models.RSVPVou, s.Regras.MultaFaltaConfirmada)
		if err != nil {
			return err
		}
		out.Multas = append(atraso, falta...)

		if out.Pontos, err = s.reconciliarPontos(tx, ev, membroID,
			status == models.PresencaPresente && ev.Tipo == models.EventoJogo); err != nil {
			return err
		}

		var antes any
		if anterior != nil {
			antes = anterior
		}
		return auditoria.Registrar(tx, "presencas_evento", "marcar_presenca", p.ID, antes, out, adminID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// reconciliarMulta deixa no máximo uma multa do tipo quando ela vale e
// nenhuma (exceto as já pagas) quando não vale. Devolve as que ficaram.
func (s *Servico) reconciliarMulta(tx *gorm.DB, ev *models.Evento, membroID, adminID string, tipo models.TipoMulta, vale bool, valor float64) ([]models.Multa, error) {
	existentes, err := s.Repository.MultasDoEvento(tx, ev.ID, membroID, tipo)
	if err != nil {
		return nil, err
	}
	if vale {
		if len(existentes) > 0 || valor <= 0 {
			return existentes, nil
		}
		m := models.Multa{
			MembroID:  membroID,
			EventoID:  &ev.ID,
			Tipo:      tipo,
			Valor:     valor,
			CriadoPor: &adminID,
		}
		if err := tx.Create(&m).Error; err != nil {
			return nil, errors.Wrapf(err, "criando multa %s", tipo)
		}
		return []models.Multa{m}, nil
	}

	var ficaram []models.Multa
	for _, m := range existentes {
		pago, err := s.Multas.MultaTemPagamento(tx, m.ID)
		if err != nil {
			return nil, err
		}
		if pago {
			ficaram = append(ficaram, m)
			continue
		}
		if err := tx.Delete(&m).Error; err != nil {
			return nil, errors.Wrapf(err, "removendo multa %s", tipo)
		}
	}
	return ficaram, nil
}

func (s *Servico) reconciliarPontos(tx *gorm.DB, ev *models.Evento, membroID string, vale bool) ([]models.Ponto, error) {
	existentes, err := s.Repository.PontosDoEvento(tx, ev.ID, membroID)
	if err != nil {
		return nil, err
	}
	if vale {
		if len(existentes) > 0 || s.Regras.PontosPresencaJogo <= 0 {
			return existentes, nil
		}
		p := models.Ponto{
			MembroID:   membroID,
			EventoID:   &ev.ID,
			Pontos:     s.Regras.PontosPresencaJogo,
			Motivo:     MotivoPresencaJogo,
			Referencia: ev.DataHora,
		}
		if err := tx.Create(&p).Error; err != nil {
			return nil, errors.Wrap(err, "criando pontos")
		}
		return []models.Ponto{p}, nil
	}
	if len(existentes) > 0 {
		if err := tx.Where("evento_id = ? AND membro_id = ?", ev.ID, membroID).Delete(&models.Ponto{}).Error; err != nil {
			return nil, errors.Wrap(err, "removendo pontos")
		}
	}
	return nil, nil
}

// SalvarTodos aplica MarcarPresenca na ordem recebida, pulando itens sem
// status. Cada item é uma transação própria: na primeira falha para e o que
// já foi gravado fica. Devolve quantos foram gravados.
func (s *Servico) SalvarTodos(ctx context.Context, eventoID string, itens []ItemLote, adminID string) (int, error) {
	salvas := 0
	for _, it := range itens {
		if it.Status == nil {
			continue
		}
		if _, err := s.MarcarPresenca(ctx, eventoID, it.MembroID, *it.Status, adminID); err != nil {
			return salvas, errors.Wrapf(err, "membro %s", it.MembroID)
		}
		salvas++
	}
	return salvas, nil
}
