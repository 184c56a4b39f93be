package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Repo interface {
	Record(ctx context.Context, operation string, userID *int, details string) error
}

const recordTimeout = 5 * time.Second

// Service writes audit entries asynchronously. Recording is best-effort:
// failures are logged locally and never surface to the operation that
// produced the entry.
type Service struct {
	repo       Repo
	workerPool WorkerPoolI
}

func New(repo Repo) *Service {
	return &Service{
		repo:       repo,
		workerPool: NewWorkerPool(4),
	}
}

func (s *Service) Record(operation string, userID *int, details string) {
	err := s.workerPool.AddTask(context.Background(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return s.repo.Record(ctx, operation, userID, details)
	})
	if err != nil {
		zap.L().Warn("audit entry dropped", zap.String("operation", operation), zap.Error(err))
	}
}

func (s *Service) Close() {
	s.workerPool.Close()
}
