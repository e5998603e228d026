package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta"
	"github.com/vfg2006/campaign-health-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-health-api/infrastructure/repository"
	"github.com/vfg2006/campaign-health-api/internal/api"
	"github.com/vfg2006/campaign-health-api/internal/config"
	"github.com/vfg2006/campaign-health-api/internal/scheduler"
	"github.com/vfg2006/campaign-health-api/internal/usecases/account"
	"github.com/vfg2006/campaign-health-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-health-api/internal/usecases/diagnosing"
	"github.com/vfg2006/campaign-health-api/internal/usecases/scoring"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	campaignSnapshotRepo := repository.NewCampaignSnapshotRepository(pgConn)
	adSnapshotRepo := repository.NewAdSnapshotRepository(pgConn)
	scoreRecordRepo := repository.NewScoreRecordRepository(pgConn)
	syncStateRepo := repository.NewSyncStateRepository(pgConn)
	alertRepo := repository.NewAlertRepository(pgConn)
	credentialRepo := repository.NewAPICredentialRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, accountRepo, cfg)

	tokenManager := metaclient.NewTokenManager(cfg, credentialRepo)
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	metaClient := metaclient.NewClient(cfg, tokenManager)
	metaIntegrator := meta.New(cfg, metaClient)

	accountService := account.NewService(accountRepo, metaIntegrator, cfg)

	// Serviço de diagnóstico de saúde das campanhas
	scoringCfg := scoring.DefaultConfig()
	if cfg.Scoring.MinCampaignImpressions > 0 {
		scoringCfg.Floors.CampaignImpressions = cfg.Scoring.MinCampaignImpressions
	}
	if cfg.Scoring.MinAdImpressions > 0 {
		scoringCfg.Floors.AdImpressions = cfg.Scoring.MinAdImpressions
	}
	if cfg.Scoring.MinConversionsForCpa > 0 {
		scoringCfg.MinConversionsForCpa = cfg.Scoring.MinConversionsForCpa
	}

	healthReporter := diagnosing.NewService(
		scoringCfg,
		metaIntegrator,
		accountRepo,
		campaignSnapshotRepo,
		adSnapshotRepo,
		scoreRecordRepo,
		syncStateRepo,
		alertRepo,
	)

	// Agendador de sincronização de snapshots
	snapshotSyncService := scheduler.NewSnapshotSyncService(
		accountRepo,
		campaignSnapshotRepo,
		adSnapshotRepo,
		scoreRecordRepo,
		syncStateRepo,
		metaIntegrator,
		cfg,
	)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de snapshots")
	} else {
		logrus.Info("Agendador de sincronização de snapshots iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		healthReporter,
		accountService,
		authenticator,
		snapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
