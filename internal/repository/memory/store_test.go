package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/repository/contract"
	"github.com/maxviazov/composer-workspace-service/internal/repository/memory"
)

func noop() {}

func TestNotificationRepository_MemoryContract(t *testing.T) {
	contract.RunNotificationRepositoryContract(t, func(t *testing.T) (repository.NotificationRepository, func()) {
		return memory.New().Notifications(), noop
	})
}

func TestProjectRepository_MemoryContract(t *testing.T) {
	contract.RunProjectRepositoryContract(t, func(t *testing.T) (repository.ProjectRepository, func()) {
		return memory.New().Projects(), noop
	})
}

func TestPublishTargetRepository_MemoryContract(t *testing.T) {
	contract.RunPublishTargetRepositoryContract(t, func(t *testing.T) (repository.PublishTargetRepository, repository.PublishHistoryRepository, func()) {
		s := memory.New()
		return s.Targets(), s.History(), noop
	})
}

func TestTxManager_MemoryContract(t *testing.T) {
	contract.RunTxManagerContract(t, func(t *testing.T) (repository.TxManager, repository.PublishTargetRepository, func()) {
		s := memory.New()
		return s, s.Targets(), noop
	})
}

func TestPinger_MemoryContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return memory.New(), noop
	})
}

func TestStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s := memory.New()
	repo := s.Notifications()
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), model.Notification{Severity: model.SeverityWarning, Message: "m"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := repo.List(context.Background(), repository.NotificationFilter{}, repository.Page{Index: 1, Size: n})
	require.NoError(t, err)
	require.Len(t, res.Items, n)
	seen := map[int64]bool{}
	for _, it := range res.Items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}
