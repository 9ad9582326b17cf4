package repository

//go:generate mockgen -source=application_repo.go -destination=mocks/application_repo_mock.go -package=mocks
//go:generate mockgen -source=employee_repo.go -destination=mocks/employee_repo_mock.go -package=mocks
//go:generate mockgen -source=statistics_repo.go -destination=mocks/statistics_repo_mock.go -package=mocks
//go:generate mockgen -source=admin_user_repo.go -destination=mocks/admin_user_repo_mock.go -package=mocks
//go:generate mockgen -source=audit_repo.go -destination=mocks/audit_repo_mock.go -package=mocks
//go:generate mockgen -source=tx_manager.go -destination=mocks/tx_manager_mock.go -package=mocks

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/metrics"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fixture struct {
	store   *docstore.GormStore
	logs    *bytes.Buffer
	logger  *slog.Logger
	norm    *datenorm.Normalizer
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := docstore.NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	logs := &bytes.Buffer{}
	log := slog.New(slog.NewJSONHandler(logs, nil))
	m := metrics.New(prometheus.NewRegistry())

	return &fixture{
		store:   store,
		logs:    logs,
		logger:  log,
		norm:    datenorm.NewNormalizer(ist, log, datenorm.WithFailureHook(m.IncNormalizationFailure)),
		metrics: m,
	}
}
