package repo

import (
	"github.com/vmalakhov/banksettle/internal/audit"
	"github.com/vmalakhov/banksettle/internal/pg"
	accountrepo "github.com/vmalakhov/banksettle/internal/repo/account-repo"
	auditrepo "github.com/vmalakhov/banksettle/internal/repo/audit-repo"
	sessionrepo "github.com/vmalakhov/banksettle/internal/repo/session-repo"
	transferrepo "github.com/vmalakhov/banksettle/internal/repo/transfer-repo"
	userrepo "github.com/vmalakhov/banksettle/internal/repo/user-repo"
	"github.com/vmalakhov/banksettle/internal/service/sessionservice"
	"github.com/vmalakhov/banksettle/internal/service/transferservice"
)

type Repositories struct {
	UserRepo     sessionservice.UserRepo
	SessionRepo  sessionservice.SessionRepo
	AccountRepo  transferservice.AccountRepo
	TransferRepo transferservice.TransferRepo
	AuditRepo    audit.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:     userrepo.New(conn),
		SessionRepo:  sessionrepo.New(conn),
		AccountRepo:  accountrepo.New(conn),
		TransferRepo: transferrepo.New(conn, txManager),
		AuditRepo:    auditrepo.New(conn),
	}
}
