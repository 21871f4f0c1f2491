package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// ResponderJSON serializa v com o status informado.
func ResponderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// DecodificarJSON lê o corpo da requisição e valida o DTO.
func DecodificarJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NovoErroValidacao("payload inválido")
	}
	return Validar(dst)
}

// ParametroID devolve a variável de rota {nome}, já sem espaços.
func ParametroID(r *http.Request, nome string) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)[nome])
	if id == "" {
		return "", NovoErroValidacao("ID inválido")
	}
	return id, nil
}
