package account

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta"
	"github.com/vfg2006/campaign-health-api/infrastructure/repository"
	"github.com/vfg2006/campaign-health-api/internal/config"
	"github.com/vfg2006/campaign-health-api/internal/domain"
	"github.com/vfg2006/campaign-health-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-health-api/pkg/utils"
)

type AccountService interface {
	ListAdAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccountResponse, error)
	SyncAccounts() (*domain.SyncAccountsResponse, error)
}

type Service struct {
	accountRepository repository.AccountRepository
	metaService       *meta.MetaIntegrator
	cfg               *config.Config
}

func NewService(
	accountRepository repository.AccountRepository,
	metaService *meta.MetaIntegrator,
	cfg *config.Config,
) AccountService {
	return &Service{
		accountRepository: accountRepository,
		metaService:       metaService,
		cfg:               cfg,
	}
}

func (s *Service) ListAdAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccountResponse, error) {
	accounts, err := s.accountRepository.ListAccounts(availableStatus)
	if err != nil {
		return nil, NewAccountError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao listar contas no banco de dados")
	}

	// Transforma os accounts para o formato de resposta da API
	adAccountsResponse := make([]*domain.AdAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		adAccountsResponse = append(adAccountsResponse, &domain.AdAccountResponse{
			ID:         account.ID,
			ExternalID: account.ExternalID,
			Name:       account.Name,
			Nickname:   account.Nickname,
			Currency:   account.Currency,
			Status:     account.Status,
		})
	}

	return adAccountsResponse, nil
}

func (s *Service) SyncAccounts() (*domain.SyncAccountsResponse, error) {
	response := &domain.SyncAccountsResponse{
		Quantity: 0,
		Message:  "Erro ao sincronizar contas",
		Error:    true,
	}

	accounts, err := s.metaService.GetAdAccounts()
	if err != nil {
		logrus.Error("Error getting ad accounts from integrator meta:", err)
		return response, NewAccountError(ErrMetaIntegration, apiErrors.ErrExternalService, "Falha ao obter contas da API do Meta")
	}

	existingAccounts, err := s.accountRepository.ListAccountsMap()
	if err != nil {
		logrus.WithField("error", err).Error("Error getting ad accounts from database")
		return response, NewAccountError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao consultar contas existentes no banco de dados")
	}

	bms := make([]*domain.BusinessManager, 0)
	accountsToCreate := make([]*domain.AdAccount, 0)
	for _, acc := range accounts {
		compositeKey := fmt.Sprintf("%s:%s", acc.Origin, acc.ExternalID)

		if _, exists := existingAccounts[compositeKey]; exists {
			continue
		}

		accountID, err := utils.GenerateID()
		if err != nil {
			return response, NewAccountError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para conta")
		}

		acc.ID = accountID
		acc.Status = domain.AdAccountStatusActive

		bmID, err := utils.GenerateID()
		if err != nil {
			return response, NewAccountError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para business manager")
		}

		accountsToCreate = append(accountsToCreate, acc)

		bms = append(bms, &domain.BusinessManager{
			ID:         bmID,
			ExternalID: acc.BusinessManagerID,
			Name:       acc.BusinessManagerName,
			Origin:     acc.Origin,
		})
	}

	businessManagerIDs, err := s.accountRepository.SaveOrUpdateBusinessManager(bms)
	if err != nil {
		return response, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao salvar business managers")
	}

	// Agora tenta salvar as contas com os business managers resolvidos
	if len(accountsToCreate) > 0 {
		err = s.accountRepository.SaveOrUpdate(accountsToCreate, businessManagerIDs)
		if err != nil {
			return response, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao salvar contas")
		}
	}

	quantity := len(accountsToCreate)

	logrus.Infof("%d accounts were successfully synced", quantity)

	response.Quantity = quantity
	response.Message = fmt.Sprintf("%d contas foram sincronizadas com sucesso", quantity)
	response.Error = false

	return response, nil
}
