package service

import (
	"github.com/vmalakhov/banksettle/internal/handlers/auth"
	"github.com/vmalakhov/banksettle/internal/handlers/balance"
	"github.com/vmalakhov/banksettle/internal/handlers/transfers"

	pkgauth "github.com/vmalakhov/banksettle/pkg/auth"

	"github.com/vmalakhov/banksettle/internal/audit"
	"github.com/vmalakhov/banksettle/internal/config"
	"github.com/vmalakhov/banksettle/internal/fee"
	"github.com/vmalakhov/banksettle/internal/idempotency"
	"github.com/vmalakhov/banksettle/internal/repo"
	"github.com/vmalakhov/banksettle/internal/service/sessionservice"
	"github.com/vmalakhov/banksettle/internal/service/transferservice"
)

type Services struct {
	AuthService     auth.Service
	BalanceService  balance.Service
	TransferService transfers.Service
	TokenResolver   pkgauth.TokenResolver
	Audit           *audit.Service
}

func New(cfg *config.Config, repo *repo.Repositories) *Services {
	auditService := audit.New(repo.AuditRepo)
	sessionService := sessionservice.New(repo.UserRepo, repo.SessionRepo, &pkgauth.HashService{}, auditService, cfg.SessionTTL)
	transferService := transferservice.New(
		repo.AccountRepo,
		repo.TransferRepo,
		idempotency.New(cfg.IdempotencyWindow),
		fee.New(fee.DefaultTiers()),
		auditService,
	)

	return &Services{
		AuthService:     sessionService,
		BalanceService:  transferService,
		TransferService: transferService,
		TokenResolver:   sessionService,
		Audit:           auditService,
	}
}
