package financeiro

import (
	"net/http"

	"github.com/patotaccc/api-patota/internal/auth"
	"github.com/patotaccc/api-patota/internal/utils"
)

// tamanho máximo aceito para o comprovante
const maxUpload = 10 << 20

type Handler struct {
	Servico *Servico
}

func NewHandler(s *Servico) *Handler {
	return &Handler{Servico: s}
}

// GET /financeiro
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.Servico.Resumo(r.Context(), auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, resumo)
}

// POST /financeiro/mensalidades/{id}/comprovante
func (h *Handler) ComprovanteMensalidade(w http.ResponseWriter, r *http.Request) {
	h.enviarComprovante(w, r, func(id string) Alvo { return Alvo{MensalidadeID: id} })
}

// POST /financeiro/multas/{id}/comprovante
func (h *Handler) ComprovanteMulta(w http.ResponseWriter, r *http.Request) {
	h.enviarComprovante(w, r, func(id string) Alvo { return Alvo{MultaID: id} })
}

func (h *Handler) enviarComprovante(w http.ResponseWriter, r *http.Request, alvo func(string) Alvo) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Arquivo inválido ou maior que 10MB", http.StatusBadRequest)
		return
	}
	f, hdr, err := r.FormFile("arquivo")
	if err != nil {
		http.Error(w, "Campo 'arquivo' obrigatório", http.StatusBadRequest)
		return
	}
	defer f.Close()

	pag, err := h.Servico.EnviarComprovante(r.Context(), auth.MembroID(r.Context()), alvo(id), Arquivo{
		Nome:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Conteudo:    f,
	})
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, pag)
}

// GET /admin/pagamentos/pendentes
func (h *Handler) Pendentes(w http.ResponseWriter, r *http.Request) {
	list, err := h.Servico.PagamentosPendentes(r.Context())
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, list)
}

// POST /admin/pagamentos/{id}/confirmar
func (h *Handler) Confirmar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	pag, err := h.Servico.Confirmar(r.Context(), id, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, pag)
}

// POST /admin/pagamentos/{id}/rejeitar
func (h *Handler) Rejeitar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParametroID(r, "id")
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	pag, err := h.Servico.Rejeitar(r.Context(), id, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, pag)
}

// POST /admin/mensalidades/gerar
func (h *Handler) GerarMensalidades(w http.ResponseWriter, r *http.Request) {
	var req GerarMensalidadesRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	n, err := h.Servico.GerarMensalidades(r.Context(), req)
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusOK, GerarMensalidadesResponse{Competencia: req.Competencia, Criadas: n})
}

// POST /admin/isencoes
func (h *Handler) CriarIsencao(w http.ResponseWriter, r *http.Request) {
	var req IsencaoRequest
	if err := utils.DecodificarJSON(r, &req); err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	resp, err := h.Servico.CriarIsencao(r.Context(), req, auth.MembroID(r.Context()))
	if err != nil {
		utils.ResponderErro(w, r, err)
		return
	}
	utils.ResponderJSON(w, http.StatusCreated, resp)
}
