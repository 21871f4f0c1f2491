package financeiro

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/caixa"
	"github.com/patotaccc/api-patota/internal/comprovante"
	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/notificacao"
	"github.com/patotaccc/api-patota/internal/utils"
)

// Alvo é o item que um comprovante quita.
type Alvo struct {
	MensalidadeID string
	MultaID       string
}

// Arquivo é o comprovante recebido no upload.
type Arquivo struct {
	Nome        string
	ContentType string
	Conteudo    io.Reader
}

type Servico struct {
	DB            *gorm.DB
	Repository    Repository
	Regras        config.Regras
	Armazenamento comprovante.Armazenamento
	Webhook       *notificacao.Webhook

	agora func() time.Time
}

func NovoServico(db *gorm.DB, regras config.Regras, arm comprovante.Armazenamento, wh *notificacao.Webhook) *Servico {
	return &Servico{
		DB:            db,
		Repository:    NewRepository(),
		Regras:        regras,
		Armazenamento: arm,
		Webhook:       wh,
		agora:         func() time.Time { return time.Now().UTC() },
	}
}

// Resumo monta a tela financeira do membro. totalPendente soma as mensalidades
// PENDENTE e todas as multas, pagas ou não.
func (s *Servico) Resumo(ctx context.Context, membroID string) (ResumoFinanceiro, error) {
	db := s.DB.WithContext(ctx)
	mens, err := s.Repository.MensalidadesDoMembro(db, membroID)
	if err != nil {
		return ResumoFinanceiro{}, errors.Wrap(err, "listando mensalidades")
	}
	multas, err := s.Repository.MultasDoMembro(db, membroID)
	if err != nil {
		return ResumoFinanceiro{}, errors.Wrap(err, "listando multas")
	}
	pags, err := s.Repository.PagamentosDoMembro(db, membroID)
	if err != nil {
		return ResumoFinanceiro{}, errors.Wrap(err, "listando pagamentos")
	}

	var total float64
	for _, m := range mens {
		if m.Status == models.MensalidadePendente {
			total += m.Valor
		}
	}
	for _, m := range multas {
		total += m.Valor
	}

	return ResumoFinanceiro{
		Mensalidades:  mens,
		Multas:        multas,
		Pagamentos:    pags,
		TotalPendente: total,
		Pix:           Pix{Chave: s.Regras.PixChave, Nome: s.Regras.PixNome},
	}, nil
}

// Pendencias conta mensalidades PENDENTE e multas sem pagamento confirmado.
func (s *Servico) Pendencias(ctx context.Context, membroID string) (Pendencias, error) {
	db := s.DB.WithContext(ctx)
	var p Pendencias

	var mens []models.Mensalidade
	if err := db.Where("membro_id = ? AND status = ?", membroID, models.MensalidadePendente).Find(&mens).Error; err != nil {
		return p, errors.Wrap(err, "listando mensalidades pendentes")
	}
	for _, m := range mens {
		p.MensalidadesPendentes++
		p.ValorMensalidades += m.Valor
	}

	multas, err := s.Repository.MultasSemPagamentoConfirmado(db, membroID)
	if err != nil {
		return p, errors.Wrap(err, "listando multas pendentes")
	}
	for _, m := range multas {
		p.MultasPendentes++
		p.ValorMultas += m.Valor
	}
	p.Total = p.ValorMensalidades + p.ValorMultas
	return p, nil
}

// EnviarComprovante guarda o arquivo e abre um pagamento PENDENTE para o item.
// Só o dono paga, e só existe um pagamento em andamento por item.
func (s *Servico) EnviarComprovante(ctx context.Context, membroID string, alvo Alvo, arq Arquivo) (*models.Pagamento, error) {
	db := s.DB.WithContext(ctx)
	pag := models.Pagamento{MembroID: membroID, Status: models.PagamentoPendente}
	var referencia string

	switch {
	case alvo.MensalidadeID != "":
		m, err := s.Repository.BuscarMensalidade(db, alvo.MensalidadeID)
		if err != nil {
			return nil, err
		}
		if m.MembroID != membroID {
			return nil, errors.Wrap(utils.ErrAcessoNegado, "mensalidade de outro membro")
		}
		if m.Status != models.MensalidadePendente {
			return nil, errors.Wrap(utils.ErrTransicaoInvalida, "mensalidade não está pendente")
		}
		pag.MensalidadeID, pag.Valor = &m.ID, m.Valor
		referencia = "mensalidade " + m.Competencia
	case alvo.MultaID != "":
		m, err := s.Repository.BuscarMulta(db, alvo.MultaID)
		if err != nil {
			return nil, err
		}
		if m.MembroID != membroID {
			return nil, errors.Wrap(utils.ErrAcessoNegado, "multa de outro membro")
		}
		pag.MultaID, pag.Valor = &m.ID, m.Valor
		referencia = "multa " + string(m.Tipo)
	default:
		return nil, utils.NovoErroValidacao("informe a mensalidade ou a multa")
	}

	ativo, err := s.Repository.ExistePagamentoAtivo(db, pag.MensalidadeID, pag.MultaID)
	if err != nil {
		return nil, err
	}
	if ativo {
		return nil, errors.Wrap(utils.ErrConflito, "já existe um pagamento para este item")
	}

	caminho, err := comprovante.Caminho(membroID, arq.ContentType, s.agora())
	if err != nil {
		return nil, err
	}
	url, err := s.Armazenamento.Salvar(ctx, caminho, arq.ContentType, arq.Conteudo)
	if err != nil {
		return nil, errors.Wrap(err, "salvando comprovante")
	}
	pag.ComprovanteURL = &url

	if err := s.Repository.CriarPagamento(db, &pag); err != nil {
		return nil, errors.Wrap(err, "registrando pagamento")
	}

	s.Webhook.EnviarWebhookAlerta(*zerolog.Ctx(ctx), notificacao.AlertaPagamento{
		Mensagem:       "Novo comprovante aguardando confirmação",
		PagamentoID:    pag.ID,
		MembroID:       membroID,
		Valor:          pag.Valor,
		Referencia:     referencia,
		ComprovanteURL: url,
	})
	return &pag, nil
}

func (s *Servico) PagamentosPendentes(ctx context.Context) ([]PagamentoPendenteDTO, error) {
	return s.Repository.PagamentosPendentes(s.DB.WithContext(ctx))
}

// Confirmar quita o item do pagamento e lança a entrada no caixa, tudo numa
// transação só.
func (s *Servico) Confirmar(ctx context.Context, pagamentoID, adminID string) (*models.Pagamento, error) {
	var pag *models.Pagamento
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pag, err = s.Repository.BuscarPagamento(tx, pagamentoID)
		if err != nil {
			return err
		}
		antes := *pag
		if err := s.Repository.MudarStatusPagamento(tx, pag, models.PagamentoPendente, models.PagamentoConfirmado, adminID); err != nil {
			return err
		}

		categoria, descricao := "MULTA", "Pagamento de multa"
		if pag.MensalidadeID != nil {
			categoria = "MENSALIDADE"
			m, err := s.Repository.BuscarMensalidade(tx, *pag.MensalidadeID)
			if err != nil {
				return err
			}
			if err := s.Repository.QuitarMensalidade(tx, m.ID); err != nil {
				return err
			}
			descricao = fmt.Sprintf("Mensalidade %s", m.Competencia)
		} else if pag.MultaID != nil {
			if m, err := s.Repository.BuscarMulta(tx, *pag.MultaID); err == nil {
				descricao = fmt.Sprintf("Multa %s", m.Tipo)
			}
		}

		var nomes []string
		if err := tx.Model(&models.Membro{}).Where("id = ?", pag.MembroID).Pluck("nome", &nomes).Error; err != nil {
			return err
		}
		if len(nomes) > 0 {
			descricao += " - " + nomes[0]
		}

		refTipo := caixa.ReferenciaPagamento
		if err := caixa.Registrar(tx, &models.LancamentoCaixa{
			Tipo:           models.LancamentoEntrada,
			Categoria:      categoria,
			Valor:          pag.Valor,
			Descricao:      &descricao,
			ReferenciaID:   &pag.ID,
			ReferenciaTipo: &refTipo,
			DataLancamento: s.agora(),
			LancadoPor:     &adminID,
		}); err != nil {
			return err
		}
		return auditoria.Registrar(tx, "pagamentos", "confirmar", pag.ID, antes, pag, adminID)
	})
	if err != nil {
		return nil, err
	}
	return pag, nil
}

// Rejeitar só sai de PENDENTE; CONFIRMADO e REJEITADO são finais.
func (s *Servico) Rejeitar(ctx context.Context, pagamentoID, adminID string) (*models.Pagamento, error) {
	var pag *models.Pagamento
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pag, err = s.Repository.BuscarPagamento(tx, pagamentoID)
		if err != nil {
			return err
		}
		antes := *pag
		if err := s.Repository.MudarStatusPagamento(tx, pag, models.PagamentoPendente, models.PagamentoRejeitado, adminID); err != nil {
			return err
		}
		return auditoria.Registrar(tx, "pagamentos", "rejeitar", pag.ID, antes, pag, adminID)
	})
	if err != nil {
		return nil, err
	}
	return pag, nil
}

func vencimentoPadrao(competencia string, dia int) (time.Time, error) {
	inicio, err := time.Parse("2006-01", competencia)
	if err != nil {
		return time.Time{}, err
	}
	ultimo := inicio.AddDate(0, 1, -1).Day()
	if dia < 1 {
		dia = 1
	}
	if dia > ultimo {
		dia = ultimo
	}
	return time.Date(inicio.Year(), inicio.Month(), dia, 0, 0, 0, 0, time.UTC), nil
}

// GerarMensalidades cria a mensalidade da competência para cada membro ativo
// que ainda não tem. Isentos entram com valor 0 e status ISENTO. Rodar de novo
// não duplica nada.
func (s *Servico) GerarMensalidades(ctx context.Context, req GerarMensalidadesRequest) (int, error) {
	valor := s.Regras.MensalidadeValor
	if req.Valor != nil {
		valor = *req.Valor
	}
	venc, err := vencimentoPadrao(req.Competencia, s.Regras.MensalidadeDiaVencimento)
	if err != nil {
		return 0, utils.NovoErroValidacao("competência inválida", utils.ErroCampo{Campo: "competencia", Erro: "use o formato AAAA-MM"})
	}
	if req.Vencimento != nil {
		if venc, err = time.Parse("2006-01-02", *req.Vencimento); err != nil {
			return 0, utils.NovoErroValidacao("vencimento inválido", utils.ErroCampo{Campo: "vencimento", Erro: "use o formato AAAA-MM-DD"})
		}
	}

	criadas := 0
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membros, err := s.Repository.MembrosAtivosSemMensalidade(tx, req.Competencia)
		if err != nil {
			return err
		}
		isentos, err := s.Repository.MembrosIsentos(tx, req.Competencia)
		if err != nil {
			return err
		}
		for _, m := range membros {
			mens := models.Mensalidade{
				MembroID:    m.ID,
				Competencia: req.Competencia,
				Vencimento:  venc,
				Valor:       valor,
				Status:      models.MensalidadePendente,
			}
			if isentos[m.ID] {
				mens.Valor, mens.Status = 0, models.MensalidadeIsento
			}
			ok, err := s.Repository.CriarMensalidadeSeNaoExiste(tx, &mens)
			if err != nil {
				return errors.Wrapf(err, "criando mensalidade de %s", m.Nome)
			}
			if ok {
				criadas++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return criadas, nil
}

// CriarIsencao registra a isenção; se a mensalidade da competência já existe e
// está PENDENTE ela passa a ISENTO com valor 0 e os comprovantes em análise
// dela são rejeitados.
func (s *Servico) CriarIsencao(ctx context.Context, req IsencaoRequest, adminID string) (IsencaoResponse, error) {
	var resp IsencaoResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Membro{}).Where("id = ?", req.MembroID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errors.Wrap(utils.ErrNaoEncontrado, "membro")
		}

		resp.Isencao = models.Isencao{
			MembroID:    req.MembroID,
			Competencia: req.Competencia,
			Motivo:      req.Motivo,
			AprovadoPor: &adminID,
		}
		if err := s.Repository.CriarIsencao(tx, &resp.Isencao); err != nil {
			return errors.Wrap(err, "gravando isenção")
		}
		m, err := s.Repository.IsentarMensalidadePendente(tx, req.MembroID, req.Competencia)
		if err != nil || m == nil {
			return err
		}
		resp.MensalidadeAtualizada = true
		resp.PagamentosRejeitados, err = s.Repository.RejeitarPagamentosDaMensalidade(tx, m.ID)
		if err != nil {
			return err
		}
		return auditoria.Registrar(tx, "mensalidades", "isentar", m.ID, nil, m, adminID)
	})
	return resp, err
}
