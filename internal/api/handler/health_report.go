package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing"
	"github.com/vfg2006/campaign-health-api/pkg/apiErrors"
)

// HealthReport retorna o relatório de saúde das campanhas de uma conta
func HealthReport(service diagnosing.HealthReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - HealthReport")

		w.Header().Set("Content-Type", "application/json")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		rawMode := r.URL.Query().Get("mode")
		mode, ok := domain.ParseComparisonMode(rawMode)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Modo de comparação inválido. Valores aceitos: rolling28, fullMonth", map[string]interface{}{
				"mode": rawMode,
			})
			return
		}

		report, err := service.GetHealthReport(accountID, mode, time.Now())
		if err != nil {
			logrus.Error("Error building health report:", err)

			switch {
			case errors.Is(err, diagnosing.ErrMissingAccountID):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)

			case errors.Is(err, diagnosing.ErrAccountNotFound):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Conta não encontrada", map[string]interface{}{
					"account_id": accountID,
				})

			case errors.Is(err, diagnosing.ErrInvalidMode):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Modo de comparação inválido", nil)

			default:
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar relatório de saúde das campanhas", nil)
			}
			return
		}

		if err := json.NewEncoder(w).Encode(report); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
