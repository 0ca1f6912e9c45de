package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/domains/health"
	"github.com/sirupsen/logrus"
)

type healthService struct {
	documents  domainAccess.IDocumentStore
	access     domainAccess.IAccessUsecase
	configPath string
	valkey     health.Pinger

	mu      sync.RWMutex
	records map[string]health.HealthRecord
}

// NewHealthService checks the stores the approval engine depends on. valkey
// may be nil when queues live on disk.
func NewHealthService(documents domainAccess.IDocumentStore, access domainAccess.IAccessUsecase, configPath string, valkey health.Pinger) health.IHealthUsecase {
	return &healthService{
		documents:  documents,
		access:     access,
		configPath: configPath,
		valkey:     valkey,
		records:    make(map[string]health.HealthRecord),
	}
}

func (s *healthService) GetStatus(_ context.Context) ([]health.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]health.HealthRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityType != out[j].EntityType {
			return out[i].EntityType < out[j].EntityType
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out, nil
}

func (s *healthService) CheckAll(ctx context.Context) ([]health.HealthRecord, error) {
	doc, err := s.documents.Load(ctx, s.configPath)
	s.report(health.EntityConfigDocument, s.configPath, err)

	if err == nil {
		for _, d := range []domainAccess.Descriptor{domainAccess.Users, domainAccess.Groups} {
			_, pendingErr := s.access.PendingEntries(ctx, d.Domain, doc)
			s.report(health.EntityPendingQueue, string(d.Domain), pendingErr)
		}
	}

	if s.valkey != nil {
		s.report(health.EntityValkey, "default", s.valkey.Ping(ctx))
	}

	return s.GetStatus(ctx)
}

func (s *healthService) report(entityType health.EntityType, entityID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(entityType) + ":" + entityID
	now := time.Now().UTC()
	record := s.records[key]
	record.EntityType = entityType
	record.EntityID = entityID
	record.LastChecked = now

	if err != nil {
		record.Status = health.StatusError
		record.LastMessage = err.Error()
		logrus.WithError(err).Warnf("[HEALTH] %s %s failed its check", entityType, entityID)
	} else {
		record.Status = health.StatusOk
		record.LastMessage = "OK"
		record.LastSuccess = &now
	}
	s.records[key] = record
}
