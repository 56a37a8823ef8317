package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/types"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// MemStore is a process-local Store, used when no document database is
// configured. Leaderboard reads sort on demand.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]Document)}
}

// UpsertProfile implements Store.UpsertProfile. An existing insight is kept.
func (s *MemStore) UpsertProfile(_ context.Context, sum *model.ProfileSummary, fetchedAt time.Time) error {
	if sum == nil || strings.TrimSpace(sum.Profile.Login) == "" {
		return ErrInvalidLogin
	}
	doc := NewDocument(sum, fetchedAt)

	s.mu.Lock()
	if old, ok := s.docs[doc.Login]; ok {
		doc.Insight = old.Insight
	}
	s.docs[doc.Login] = doc
	n := len(s.docs)
	s.mu.Unlock()

	metrics.UpdateProfilesStored(n)
	return nil
}

// SaveInsight implements Store.SaveInsight.
func (s *MemStore) SaveInsight(_ context.Context, login, text string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[login]
	if !ok {
		return ErrNotFound
	}
	doc.Insight = &InsightDoc{Text: text, GeneratedAt: at.UTC()}
	s.docs[login] = doc
	return nil
}

// Get implements Store.Get.
func (s *MemStore) Get(_ context.Context, login string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[login]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// Rank implements Store.Rank.
func (s *MemStore) Rank(_ context.Context, login string) (types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[login]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	above := 0
	for _, d := range s.docs {
		if d.Rating > doc.Rating {
			above++
		}
	}
	return types.Entry{Rank: above + 1, Login: doc.Login, Rating: doc.Rating}, nil
}

// TopN implements Store.TopN.
func (s *MemStore) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	all := make([]types.Entry, 0, len(s.docs))
	for _, d := range s.docs {
		all = append(all, types.Entry{Login: d.Login, Rating: d.Rating})
	}
	s.mu.RUnlock()

	slices.SortFunc(all, compareEntries)
	if len(all) > n {
		all = all[:n]
	}
	types.AssignRanks(all)
	return all, nil
}

// Count implements Store.Count.
func (s *MemStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close implements Store.Close.
func (s *MemStore) Close(context.Context) error { return nil }

func compareEntries(a, b types.Entry) int {
	switch {
	case types.Less(a, b):
		return -1
	case types.Less(b, a):
		return 1
	}
	return 0
}
