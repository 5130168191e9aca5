package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/modules/utility/dto"
	"anoa.com/municipalservices/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type fakeUtilityRepo struct {
	mu        sync.Mutex
	utilities map[string]*entity.Utility
}

func newFakeUtilityRepo() *fakeUtilityRepo {
	return &fakeUtilityRepo{utilities: map[string]*entity.Utility{}}
}

func (r *fakeUtilityRepo) FindOrCreate(_ context.Context, label string) (*entity.Utility, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.utilities[label]; ok {
		return u, false, nil
	}
	u := &entity.Utility{ID: uint(len(r.utilities) + 1), Type: label}
	r.utilities[label] = u
	return u, true, nil
}

func (r *fakeUtilityRepo) FindByID(_ context.Context, id uint) (*entity.Utility, error) {
	for _, u := range r.utilities {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUtilityRepo) List(context.Context) ([]*entity.Utility, error) { return nil, nil }

func (r *fakeUtilityRepo) ListTypes(context.Context) ([]string, error) { return nil, nil }

func (r *fakeUtilityRepo) Update(_ context.Context, id uint, updates map[string]interface{}) (int64, error) {
	for _, u := range r.utilities {
		if u.ID != id {
			continue
		}
		if rate, ok := updates["charge_per_unit"]; ok {
			u.ChargePerUnit = decimal.NewNullDecimal(rate.(decimal.Decimal))
		}
		if dept, ok := updates["dept_id"]; ok {
			d := dept.(uint)
			u.DeptID = &d
		}
		return 1, nil
	}
	return 0, nil
}

type countingCounter struct {
	mu sync.Mutex
	n  int
}

func (c *countingCounter) IncUtilitiesCreated() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func TestFindOrCreateNormalizesLabel(t *testing.T) {
	repo := newFakeUtilityRepo()
	counter := &countingCounter{}
	svc := NewUtilityService(repo, counter, zap.NewNop())

	first, err := svc.FindOrCreate(context.Background(), "  water ")
	require.NoError(t, err)
	assert.Equal(t, "WATER", first.Type)

	second, err := svc.FindOrCreate(context.Background(), "Water")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, counter.n)
	assert.False(t, first.ChargePerUnit.Valid, "new utilities start without a rate")
}

func TestFindOrCreateRejectsBlankLabel(t *testing.T) {
	svc := NewUtilityService(newFakeUtilityRepo(), nil, zap.NewNop())

	_, err := svc.FindOrCreate(context.Background(), "   ")
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func TestFindOrCreateConcurrentCallersShareOneRow(t *testing.T) {
	repo := newFakeUtilityRepo()
	counter := &countingCounter{}
	svc := NewUtilityService(repo, counter, zap.NewNop())

	var g errgroup.Group
	ids := make([]uint, 16)
	for i := range ids {
		i := i
		g.Go(func() error {
			u, err := svc.FindOrCreate(context.Background(), "GAS")
			if err != nil {
				return err
			}
			ids[i] = u.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, repo.utilities, 1)
	assert.Equal(t, 1, counter.n)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestUpdateUtility(t *testing.T) {
	repo := newFakeUtilityRepo()
	svc := NewUtilityService(repo, nil, zap.NewNop())
	u, err := svc.FindOrCreate(context.Background(), "ELECTRICITY")
	require.NoError(t, err)

	rate := decimal.RequireFromString("4.25")
	updated, err := svc.UpdateUtility(context.Background(), u.ID, dto.UpdateUtilityRequest{ChargePerUnit: &rate})
	require.NoError(t, err)
	assert.True(t, updated.ChargePerUnit.Valid)
	assert.True(t, rate.Equal(updated.ChargePerUnit.Decimal))

	negative := decimal.NewFromInt(-1)
	_, err = svc.UpdateUtility(context.Background(), u.ID, dto.UpdateUtilityRequest{ChargePerUnit: &negative})
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = svc.UpdateUtility(context.Background(), 99, dto.UpdateUtilityRequest{ChargePerUnit: &rate})
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))

	_, err = svc.UpdateUtility(context.Background(), u.ID, dto.UpdateUtilityRequest{})
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}
