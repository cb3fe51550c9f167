package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestNewTestDB_MigratesAllTables(t *testing.T) {
	gdb := NewTestDB(t)

	for _, m := range []any{
		&models.Brand{}, &models.Category{}, &models.Product{},
		&models.Customer{}, &models.Staff{}, &models.RevokedAuthToken{},
	} {
		require.True(t, gdb.Migrator().HasTable(m))
	}
	require.NoError(t, Ping(context.Background(), gdb))
}

func TestTranslateError_DuplicatedKey(t *testing.T) {
	gdb := NewTestDB(t)

	require.NoError(t, gdb.Create(&models.Brand{Name: "Trek"}).Error)
	err := gdb.Create(&models.Brand{Name: "Trek"}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMigrate_ProductForeignKeys(t *testing.T) {
	gdb := NewTestDB(t)
	m := gdb.Migrator()

	require.True(t, m.HasConstraint(&models.Product{}, "Brand"))
	require.True(t, m.HasConstraint(&models.Product{}, "Category"))
	require.False(t, m.HasConstraint(&models.Brand{}, "fk_products_brand"), "brands must not reference products")

	brand := models.Brand{Name: "Trek"}
	require.NoError(t, gdb.Create(&brand).Error, "a brand needs no product to exist")
	category := models.Category{Name: "Road"}
	require.NoError(t, gdb.Create(&category).Error)

	missing := uint(999)
	err := gdb.Create(&models.Product{Name: "Ghost", BrandID: &missing, ModelYear: 2020, ListPrice: 1}).Error
	require.Error(t, err, "products.brand_id references brands")

	p := models.Product{Name: "Domane", BrandID: &brand.ID, CategoryID: &category.ID, ModelYear: 2020, ListPrice: 1999.99}
	require.NoError(t, gdb.Create(&p).Error)

	require.Error(t, gdb.Delete(&models.Brand{}, brand.ID).Error, "a referenced brand cannot be deleted")
	require.Error(t, gdb.Delete(&models.Category{}, category.ID).Error, "a referenced category cannot be deleted")

	require.NoError(t, gdb.Delete(&p).Error)
	require.NoError(t, gdb.Delete(&models.Brand{}, brand.ID).Error)
}

func TestMigrate_StaffManagerSetNull(t *testing.T) {
	gdb := NewTestDB(t)

	boss := models.Staff{Username: "boss", Password: "pw", Active: true}
	require.NoError(t, gdb.Create(&boss).Error)
	clerk := models.Staff{Username: "clerk", Password: "pw", Active: true, ManagerID: &boss.ID}
	require.NoError(t, gdb.Create(&clerk).Error)

	require.NoError(t, gdb.Delete(&boss).Error)
	var got models.Staff
	require.NoError(t, gdb.First(&got, clerk.ID).Error)
	require.Nil(t, got.ManagerID)
}
