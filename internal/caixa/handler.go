package caixa

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

const limiteLancamentos = 50

type Handler struct {
	DB        *gorm.DB
	Relatorio *Relatorio
}

func NewHandler(db *gorm.DB, rel *Relatorio) *Handler {
	return &Handler{DB: db, Relatorio: rel}
}

// GET /admin/caixa
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	saldo, err := h.Relatorio.Saldo(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	repo := NewRepository(h.DB.WithContext(r.Context()))
	lancs, err := repo.Ultimos(limiteLancamentos)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, CaixaResponse{Saldo: saldo, Lancamentos: lancs})
}

// GET /admin/caixa/resumo-mensal
func (h *Handler) ResumoMensal(w http.ResponseWriter, r *http.Request) {
	meses, err := h.Relatorio.ResumoMensal(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, meses)
}

// POST /admin/caixa/lancamentos
func (h *Handler) Lancar(w http.ResponseWriter, r *http.Request) {
	var req LancamentoRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	adminID := auth.MembroID(r.Context())
	l := models.LancamentoCaixa{
		Tipo:       req.Tipo,
		Categoria:  req.Categoria,
		Valor:      req.Valor,
		Descricao:  req.Descricao,
		LancadoPor: &adminID,
	}
	if req.DataLancamento != nil {
		l.DataLancamento = req.DataLancamento.UTC()
	}
	if err := Registrar(h.DB.WithContext(r.Context()), &l); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, l)
}
