package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/loanledger/internal/adapter/http"
	"github.com/iho/loanledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/loanledger/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/loanledger/internal/adapter/repository/redis"
	infraredis "github.com/iho/loanledger/internal/infrastructure/redis"
	"github.com/iho/loanledger/internal/usecase"
	"github.com/iho/loanledger/tests/testutil"
)

type testEnv struct {
	DB     *testutil.TestDB
	Router http.Handler
	LoanUC *usecase.LoanUseCase
	Redis  *redis.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping integration tests")
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	collateralRepo := postgresRepo.NewCollateralRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, collateralRepo, rateRepo, clientRepo, idGen, retrier, redisrepo.NewCache(redisClient), nil)
	rateUC := usecase.NewRateUseCase(rateRepo)
	collateralUC := usecase.NewCollateralUseCase(txManager, collateralRepo, loanRepo, idGen, nil)
	clientUC := usecase.NewClientUseCase(clientRepo, idGen)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		ClientHandler:     handler.NewClientHandler(clientUC, loanUC),
		RateHandler:       handler.NewRateHandler(rateUC),
		CollateralHandler: handler.NewCollateralHandler(collateralUC),
		LoanHandler:       handler.NewLoanHandler(loanUC),
		ContractHandler:   handler.NewContractHandler(loanUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisrepo.NewIdempotencyStore(redisClient),
	})

	return &testEnv{
		DB:     testDB,
		Router: router,
		LoanUC: loanUC,
		Redis:  redisClient,
	}
}

func createLoanInput(clientID, collateralID string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		ClientID:     clientID,
		Principal:    decimal.NewFromInt(500),
		CollateralID: collateralID,
	}
}
