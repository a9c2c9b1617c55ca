package catalog

import (
	"testing"

	"shipsupply/models"

	"github.com/stretchr/testify/require"
)

func TestValidSubcategory(t *testing.T) {
	require.True(t, ValidCategory("spare_parts"))
	require.False(t, ValidCategory("jewellery"))

	require.True(t, ValidSubcategory("spare_parts", ""))
	require.True(t, ValidSubcategory("spare_parts", "pumps"))
	require.False(t, ValidSubcategory("spare_parts", "frozen"))
	require.False(t, ValidSubcategory("unknown", "pumps"))
}

func TestDefaultsFor(t *testing.T) {
	require.Equal(t,
		[]string{"spare_parts", "provisions", "deck_stores", "lubricants"},
		DefaultsFor(models.SupplierTypeSupplier))
	require.Equal(t,
		[]string{"technical_services", "port_services", "surveys"},
		DefaultsFor(models.SupplierTypeServiceProvider))
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cs := Categories()
	cs[0].ID = "changed"
	require.True(t, ValidCategory("spare_parts"))
}
