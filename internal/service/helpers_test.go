package service_test

//go:generate mockgen -source=application_service.go -destination=mocks/application_service_mock.go -package=mocks
//go:generate mockgen -source=status_service.go -destination=mocks/status_service_mock.go -package=mocks
//go:generate mockgen -source=employee_service.go -destination=mocks/employee_service_mock.go -package=mocks
//go:generate mockgen -source=statistics_service.go -destination=mocks/statistics_service_mock.go -package=mocks
//go:generate mockgen -source=audit_service.go -destination=mocks/audit_service_mock.go -package=mocks
//go:generate mockgen -source=auth_service.go -destination=mocks/auth_service_mock.go -package=mocks

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/mock/gomock"

	repomocks "idportal/internal/repository/mocks"
	"idportal/internal/service"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runTxInline makes the transaction manager call fn with the caller's context.
func runTxInline(tx *repomocks.MockTransactionManager) {
	tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
}

func jpeg(name string) service.UploadedFile {
	return service.UploadedFile{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        120 * 1024,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
		},
	}
}
