package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ScanValue(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["A","B"]`)))
	assert.Equal(t, StringList{"A", "B"}, l)

	require.NoError(t, l.Scan("null"))
	assert.Equal(t, StringList{}, l)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, l.Scan(42))
}

func TestJSONColumns_CorruptValueTolerated(t *testing.T) {
	var items SaleItems
	require.NoError(t, items.Scan("{not json"))
	assert.Equal(t, SaleItems{}, items)

	var details JSONMap
	require.NoError(t, details.Scan([]byte("[1,2")))
	assert.Equal(t, JSONMap{}, details)

	require.NoError(t, details.Scan(nil))
	assert.NotNil(t, details)
}

func TestJSONMap_Value(t *testing.T) {
	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	v, err = JSONMap{"saleId": "s1"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"saleId":"s1"}`, v.(string))
}

func TestOptionalDate_Unmarshal(t *testing.T) {
	var in ProductUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Tea"}`), &in))
	assert.False(t, in.ExpiryDate.Set)
	_, present := in.Fields()["expiry_date"]
	assert.False(t, present)

	in = ProductUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"expiry_date":null}`), &in))
	assert.True(t, in.ExpiryDate.Set)
	v, present := in.Fields()["expiry_date"]
	assert.True(t, present)
	assert.Nil(t, v)

	in = ProductUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"expiry_date":"2025-03-01"}`), &in))
	require.NotNil(t, in.ExpiryDate.Time)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *in.ExpiryDate.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"expiry_date":"next week"}`), &in))
}

func TestPickDate(t *testing.T) {
	current := DateOf(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	legacy := DateOf(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	null := OptionalDate{Set: true}

	assert.Equal(t, current, pickDate(current, legacy))
	assert.Equal(t, legacy, pickDate(null, legacy))
	assert.Equal(t, legacy, pickDate(OptionalDate{}, legacy))
	assert.Equal(t, null, pickDate(null, OptionalDate{}))
	assert.False(t, pickDate(OptionalDate{}, OptionalDate{}).Set)
}

func TestProductInput_LegacyExpiry(t *testing.T) {
	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Milk","expiryDate":"2025-02-10T08:00:00Z"}`), &in))
	require.NotNil(t, in.Expiry())
	assert.Equal(t, 2025, in.Expiry().Year())
}

func TestProductUpdate_Fields(t *testing.T) {
	name, price, stock := "Tea", 2.5, 0
	fields := ProductUpdate{Name: &name, Price: &price, Stock: &stock}.Fields()
	assert.Equal(t, map[string]interface{}{"name": "Tea", "price": 2.5, "stock": 0}, fields)
	assert.Empty(t, ProductUpdate{}.Fields())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := Product{Stock: 10, LowStockThreshold: 10}
	assert.True(t, p.IsLowStock())
	p.Stock = 11
	assert.False(t, p.IsLowStock())
}

func TestUser_Helpers(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.Equal(t, "", nilUser.DisplayName())
	assert.Equal(t, "ana", (&User{Username: "ana"}).DisplayName())
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("owner"))
	assert.True(t, ValidAction(ActionStockAdjustment))
	assert.False(t, ValidAction("refund"))
}
