package repository

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetBase(zap.NewNop())
	os.Exit(m.Run())
}
