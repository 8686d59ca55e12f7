package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 2)
	assert.Contains(t, DatabaseModels, &UnitTypeRecord{})
	assert.Contains(t, DatabaseModels, &CatalogInfo{})
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "unit_types", (&UnitTypeRecord{}).TableName())
	assert.Equal(t, "catalog_info", (&CatalogInfo{}).TableName())
}
