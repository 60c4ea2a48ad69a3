package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/healthquest/healthquest/internal/boss"
	"github.com/healthquest/healthquest/internal/domain"
)

// MockBossService mocks the boss.Service interface
type MockBossService struct {
	mock.Mock
}

func (m *MockBossService) ActiveBoss(ctx context.Context) (*domain.Boss, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boss), args.Error(1)
}

func (m *MockBossService) DamageRecords(ctx context.Context, bossID string, limit int) ([]domain.BossDamageRecord, error) {
	args := m.Called(ctx, bossID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BossDamageRecord), args.Error(1)
}

func (m *MockBossService) Attack(ctx context.Context, wallet, bossID string) (*boss.AttackResult, error) {
	args := m.Called(ctx, wallet, bossID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*boss.AttackResult), args.Error(1)
}

func TestHandleGetActiveBoss(t *testing.T) {
	t.Run("returns boss", func(t *testing.T) {
		svc := &MockBossService{}
		svc.On("ActiveBoss", mock.Anything).Return(&domain.Boss{
			ID:            "b1",
			Name:          "Couch Potato King",
			CurrentHealth: 800,
		}, nil)

		req := httptest.NewRequest("GET", "/boss/active", nil)
		w := httptest.NewRecorder()
		HandleGetActiveBoss(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Couch Potato King")
	})

	t.Run("no boss maps to 404", func(t *testing.T) {
		svc := &MockBossService{}
		svc.On("ActiveBoss", mock.Anything).Return(nil, domain.ErrBossNotFound)

		req := httptest.NewRequest("GET", "/boss/active", nil)
		w := httptest.NewRecorder()
		HandleGetActiveBoss(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"reason":"boss_not_found"`)
	})
}

func TestHandleAttackBoss(t *testing.T) {
	t.Run("returns attack outcome", func(t *testing.T) {
		svc := &MockBossService{}
		svc.On("Attack", mock.Anything, testWallet, "b1").Return(&boss.AttackResult{
			Damage:     120,
			Critical:   true,
			BossHealth: 680,
			XPAwarded:  60,
		}, nil)

		w := serveAuthed("POST", "/boss/b1/attack", nil, func(r chi.Router) {
			r.Post("/boss/{id}/attack", HandleAttackBoss(svc))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"damage":120`)
		assert.Contains(t, w.Body.String(), `"critical":true`)
	})

	t.Run("level too low maps to 400", func(t *testing.T) {
		svc := &MockBossService{}
		svc.On("Attack", mock.Anything, testWallet, "b1").Return(nil, domain.ErrLevelTooLow)

		w := serveAuthed("POST", "/boss/b1/attack", nil, func(r chi.Router) {
			r.Post("/boss/{id}/attack", HandleAttackBoss(svc))
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"reason":"level_too_low"`)
	})

	t.Run("insufficient gold maps to 400", func(t *testing.T) {
		svc := &MockBossService{}
		svc.On("Attack", mock.Anything, testWallet, "b1").Return(nil, domain.ErrInsufficientGold)

		w := serveAuthed("POST", "/boss/b1/attack", nil, func(r chi.Router) {
			r.Post("/boss/{id}/attack", HandleAttackBoss(svc))
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"reason":"insufficient_gold"`)
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		svc := &MockBossService{}

		req := httptest.NewRequest("POST", "/boss/b1/attack", nil)
		w := httptest.NewRecorder()
		HandleAttackBoss(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Attack")
	})
}

func TestHandleBossDamageRecords(t *testing.T) {
	svc := &MockBossService{}
	svc.On("DamageRecords", mock.Anything, "b1", 0).
		Return([]domain.BossDamageRecord{{BossID: "b1", Damage: 42}}, nil)

	w := serveWithWallet("GET", "/boss/b1/records", nil, func(r chi.Router) {
		r.Get("/boss/{id}/records", HandleBossDamageRecords(svc))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"damage":42`)
	svc.AssertExpectations(t)
}
