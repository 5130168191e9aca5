//go:build integration

package bootstrap_test

import (
	"testing"

	"anoa.com/municipalservices/internal/bootstrap"
	"anoa.com/municipalservices/internal/entity"
	"anoa.com/municipalservices/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewPostgres(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, bootstrap.SeedBuildingTypes(db))
		require.NoError(t, bootstrap.SeedDepartments(db))
		require.NoError(t, bootstrap.SeedAdmin(db, "admin@city.gov", "", zap.NewNop()))
	}

	var types, departments, logins int64
	require.NoError(t, db.Model(&entity.BuildingType{}).Count(&types).Error)
	require.NoError(t, db.Model(&entity.Department{}).Count(&departments).Error)
	require.NoError(t, db.Model(&entity.Login{}).Where("role = ?", entity.RoleAdmin).Count(&logins).Error)

	assert.Equal(t, int64(4), types)
	assert.Equal(t, int64(4), departments)
	assert.Equal(t, int64(1), logins)

	var admin entity.Login
	require.NoError(t, db.Where("email = ?", "admin@city.gov").First(&admin).Error)
	assert.Nil(t, admin.PasswordHash)
}
