package membro

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/auditoria"
	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

// Convidador envia o link de acesso para quem acabou de ser cadastrado.
type Convidador interface {
	EnviarConvite(ctx context.Context, email string) error
}

// Sessoes derruba o acesso de quem foi desativado.
type Sessoes interface {
	RevogarSessoes(ctx context.Context, membroID string) error
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Convites   Convidador
	Sessoes    Sessoes
}

func NewHandler(db *gorm.DB, convites Convidador, sessoes Sessoes) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Convites:   convites,
		Sessoes:    sessoes,
	}
}

// GET /admin/membros
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	membros, err := h.Repository.ListarComAdmin(h.DB.WithContext(r.Context()))
	if err != nil {
		http.Error(w, "Erro ao listar membros", http.StatusInternalServerError)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, membros)
}

// POST /admin/membros
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CriarMembroRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	db := h.DB.WithContext(r.Context())
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := h.Repository.BuscarPorEmail(db, email)
	if err == nil {
		utils.ResponderErro(w, r, errors.Wrap(utils.ErrConflito, "e-mail já cadastrado"))
		return
	}
	if !errors.Is(err, utils.ErrNaoEncontrado) {
		utils.ResponderErro(w, r, err)
		return
	}

	m := models.Membro{
		Nome:     strings.TrimSpace(req.Nome),
		Email:    email,
		Telefone: req.Telefone,
		Ativo:    true,
	}
	if err := h.Repository.Criar(db, &m); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	resp := CriarMembroResponse{Membro: m, ConviteEnviado: true}
	if err := h.Convites.EnviarConvite(r.Context(), m.Email); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("membro", m.ID).Msg("falha ao enviar convite")
		resp.ConviteEnviado = false
	}
	utils.ResponderJSON(w, http.StatusCreated, resp)
}

// PATCH /admin/membros/{id}/ativo
func (h *Handler) AlternarAtivo(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	var depois models.Membro
	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		antes, err := h.Repository.BuscarPorID(tx, id)
		if err != nil {
			return err
		}
		if err := h.Repository.DefinirAtivo(tx, id, !antes.Ativo); err != nil {
			return err
		}
		depois = *antes
		depois.Ativo = !antes.Ativo
		return auditoria.Registrar(tx, "membros", "alternar_ativo", id,
			map[string]bool{"ativo": antes.Ativo}, map[string]bool{"ativo": depois.Ativo},
			auth.MembroID(r.Context()))
	})
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	if !depois.Ativo {
		if err := h.Sessoes.RevogarSessoes(r.Context(), id); err != nil {
			utils.ResponderErro(w, r, errors.Wrap(err, "encerrando sessões do membro"))
			return
		}
	}
	utils.ResponderJSON(w, http.StatusOK, depois)
}

// GET /membros/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	m, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, m)
}
