package evento

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/financeiro"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

const proximosNoPainel = 5

// Financeiro é o que o início e o painel precisam da parte de cobrança.
type Financeiro interface {
	Pendencias(ctx context.Context, membroID string) (financeiro.Pendencias, error)
	PagamentosPendentes(ctx context.Context) ([]financeiro.PagamentoPendenteDTO, error)
}

type Servico struct {
	DB         *gorm.DB
	Repository Repository
	Multas     financeiro.Repository
	Financeiro Financeiro
	Regras     config.Regras

	agora func() time.Time
}

func NovoServico(db *gorm.DB, regras config.Regras, fin Financeiro) *Servico {
	return &Servico{
		DB:         db,
		Repository: NewRepository(),
		Multas:     financeiro.NewRepository(),
		Financeiro: fin,
		Regras:     regras,
		agora:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Servico) montar(db *gorm.DB, eventos []models.Evento, membroID string) ([]EventoDTO, map[string]models.ConfirmacaoEvento, error) {
	ids := make([]string, 0, len(eventos))
	for _, e := range eventos {
		ids = append(ids, e.ID)
	}
	confirmados, err := s.Repository.ContarConfirmados(db, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "contando confirmados")
	}
	minhas, err := s.Repository.ConfirmacoesDoMembro(db, membroID, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "buscando confirmações")
	}

	out := make([]EventoDTO, 0, len(eventos))
	for _, e := range eventos {
		dto := EventoDTO{Evento: e, Confirmados: confirmados[e.ID]}
		if c, ok := minhas[e.ID]; ok {
			st := c.Status
			dto.MinhaConfirmacao = &st
		}
		out = append(out, dto)
	}
	return out, minhas, nil
}

// Listar devolve os próximos eventos ou os passados, conforme futuros.
func (s *Servico) Listar(ctx context.Context, membroID string, futuros bool) ([]EventoDTO, error) {
	db := s.DB.WithContext(ctx)
	eventos, err := s.Repository.Listar(db, s.agora(), futuros, 0)
	if err != nil {
		return nil, errors.Wrap(err, "listando eventos")
	}
	out, _, err := s.montar(db, eventos, membroID)
	return out, err
}

func (s *Servico) Detalhe(ctx context.Context, eventoID, membroID string) (*DetalheEvento, error) {
	db := s.DB.WithContext(ctx)
	e, err := s.Repository.BuscarPorID(db, eventoID)
	if err != nil {
		return nil, err
	}
	dtos, minhas, err := s.montar(db, []models.Evento{*e}, membroID)
	if err != nil {
		return nil, err
	}
	return &DetalheEvento{EventoDTO: dtos[0], MeusConvidados: minhas[e.ID].Convidados}, nil
}

// Inicio junta o próximo evento e as pendências financeiras do membro.
func (s *Servico) Inicio(ctx context.Context, membroID string) (*Inicio, error) {
	db := s.DB.WithContext(ctx)
	eventos, err := s.Repository.Listar(db, s.agora(), true, 1)
	if err != nil {
		return nil, errors.Wrap(err, "buscando próximo evento")
	}
	out := &Inicio{}
	if len(eventos) > 0 {
		dtos, _, err := s.montar(db, eventos, membroID)
		if err != nil {
			return nil, err
		}
		out.ProximoEvento = &dtos[0]
	}
	if out.Pendencias, err = s.Financeiro.Pendencias(ctx, membroID); err != nil {
		return nil, err
	}
	return out, nil
}

// ResponderRSVP grava a resposta do membro; responder de novo sobrescreve.
func (s *Servico) ResponderRSVP(ctx context.Context, eventoID, membroID string, status models.StatusRSVP) (*models.ConfirmacaoEvento, error) {
	var c *models.ConfirmacaoEvento
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repository.BuscarPorID(tx, eventoID); err != nil {
			return err
		}
		var err error
		c, err = s.Repository.SalvarRSVP(tx, eventoID, membroID, status)
		return errors.Wrap(err, "salvando confirmação")
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AdicionarConvidados define quantos convidados o membro leva e mantém uma
// única multa CONVIDADO no valor quantidade × multa por convidado. Com zero a
// multa some, desde que nenhum pagamento aponte para ela.
func (s *Servico) AdicionarConvidados(ctx context.Context, eventoID, membroID string, quantidade int) (*ConvidadosResponse, error) {
	if quantidade < 0 {
		return nil, utils.NovoErroValidacao("quantidade inválida", utils.ErroCampo{Campo: "quantidade", Erro: "não pode ser negativa"})
	}

	resp := &ConvidadosResponse{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repository.BuscarPorID(tx, eventoID); err != nil {
			return err
		}
		c, err := s.Repository.BuscarConfirmacao(tx, eventoID, membroID)
		if errors.Is(err, utils.ErrNaoEncontrado) {
			return errors.Wrap(utils.ErrTransicaoInvalida, "confirme presença antes de informar convidados")
		}
		if err != nil {
			return err
		}
		if err := s.Repository.DefinirConvidados(tx, c, quantidade); err != nil {
			return errors.Wrap(err, "gravando convidados")
		}
		resp.Confirmacao = *c

		multa, err := s.Repository.BuscarMultaConvidado(tx, eventoID, membroID)
		if err != nil {
			return err
		}
		valor := float64(quantidade) * s.Regras.MultaConvidado

		if multa != nil && multa.Valor != valor {
			pago, err := s.Multas.MultaTemPagamento(tx, multa.ID)
			if err != nil {
				return err
			}
			if pago {
				return errors.Wrap(utils.ErrConflito, "multa de convidados já tem pagamento")
			}
		}

		obs := fmt.Sprintf("%d convidado(s)", quantidade)
		switch {
		case quantidade == 0 && multa != nil:
			return tx.Delete(multa).Error
		case quantidade == 0:
			return nil
		case multa == nil:
			multa = &models.Multa{
				MembroID:   membroID,
				EventoID:   &eventoID,
				Tipo:       models.MultaConvidado,
				Valor:      valor,
				Observacao: &obs,
			}
			if err := tx.Create(multa).Error; err != nil {
				return errors.Wrap(err, "criando multa de convidados")
			}
		case multa.Valor != valor:
			if err := tx.Model(multa).Updates(map[string]any{"valor": valor, "observacao": obs}).Error; err != nil {
				return errors.Wrap(err, "atualizando multa de convidados")
			}
			multa.Valor, multa.Observacao = valor, &obs
		}
		resp.Multa = multa
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Servico) Criar(ctx context.Context, req CriarEventoRequest, adminID string) (*models.Evento, error) {
	local := strings.TrimSpace(req.Local)
	if local == "" {
		return nil, utils.NovoErroValidacao("local obrigatório", utils.ErroCampo{Campo: "local", Erro: "obrigatório"})
	}
	e := models.Evento{
		Tipo:      req.Tipo,
		DataHora:  req.DataHora.UTC(),
		Local:     local,
		Descricao: req.Descricao,
		CriadoPor: &adminID,
	}
	if err := s.Repository.Criar(s.DB.WithContext(ctx), &e); err != nil {
		return nil, errors.Wrap(err, "criando evento")
	}
	return &e, nil
}

// Painel do admin: os próximos eventos e a fila de comprovantes.
func (s *Servico) Painel(ctx context.Context, adminID string) (*Painel, error) {
	db := s.DB.WithContext(ctx)
	eventos, err := s.Repository.Listar(db, s.agora(), true, proximosNoPainel)
	if err != nil {
		return nil, errors.Wrap(err, "listando próximos eventos")
	}
	dtos, _, err := s.montar(db, eventos, adminID)
	if err != nil {
		return nil, err
	}
	pend, err := s.Financeiro.PagamentosPendentes(ctx)
	if err != nil {
		return nil, err
	}
	return &Painel{ProximosEventos: dtos, PagamentosPendentes: pend}, nil
}
