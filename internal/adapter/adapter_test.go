package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"
	"retailpos/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dataOnly hides the AuditStore half of a backend.
type dataOnly struct {
	store.DataStore
}

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"":          EnvServer,
		"server":    EnvServer,
		"desktop":   EnvDesktop,
		"Electron":  EnvDesktop,
		" browser ": EnvBrowser,
		"web":       EnvBrowser,
		"unknown":   EnvServer,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseEnvironment(in), in)
	}
	assert.True(t, EnvDesktop.UsesLocal())
	assert.False(t, EnvBrowser.UsesLocal())
	assert.False(t, EnvServer.UsesLocal())
}

func TestDetectEnvironment(t *testing.T) {
	t.Setenv(RuntimeEnvVar, "desktop")
	assert.Equal(t, EnvDesktop, DetectEnvironment())
}

func TestServerNeverLoadsLocal(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	calls := 0
	a := New(EnvServer, remote, func(context.Context) (store.DataStore, error) {
		calls++
		return nil, errors.New("unexpected")
	})
	ctx := context.Background()

	_, err := a.CreateProduct(ctx, model.ProductInput{Name: "Tea", Price: 1, Stock: 1})
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, a.Backend(ctx))
	assert.Zero(t, calls)
}

func TestDesktopRoutesToLocal(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	local, _ := storetest.NewLocal(t, model.RoleStaff)
	a := New(EnvDesktop, remote, func(context.Context) (store.DataStore, error) {
		return local, nil
	})
	ctx := context.Background()

	p, err := a.CreateProduct(ctx, model.ProductInput{Name: "Tea", Price: 1, Stock: 5})
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, a.Backend(ctx))

	inLocal, err := local.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, inLocal)

	inRemote, err := remote.GetProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, inRemote)

	ok, err := a.UpdateProductStock(ctx, p.ID, -2)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := a.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestDesktopFallsBackOnceLoaderFails(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	calls := 0
	a := New(EnvDesktop, remote, func(context.Context) (store.DataStore, error) {
		calls++
		return nil, store.ErrEngineUnavailable
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := a.GetProducts(ctx)
		require.NoError(t, err)
	}
	_, err := a.CreateProduct(ctx, model.ProductInput{Name: "Tea", Price: 1, Stock: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, BackendRemote, a.Backend(ctx))
	products, err := remote.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestDesktopWithoutLoader(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	a := New(EnvDesktop, remote, nil)

	assert.Equal(t, BackendRemote, a.Backend(context.Background()))
}

func TestAuditFollowsLocalBackend(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleAdmin)
	local, _ := storetest.NewLocal(t, model.RoleAdmin)
	a := New(EnvDesktop, remote, func(context.Context) (store.DataStore, error) { return local, nil })
	ctx := context.Background()

	_, err := a.CreateAuditEntry(ctx, model.AuditEntryInput{Action: model.ActionLogin})
	require.NoError(t, err)

	localTrail, err := local.GetAuditTrail(ctx)
	require.NoError(t, err)
	assert.Len(t, localTrail, 1)
	remoteTrail, err := remote.GetAuditTrail(ctx)
	require.NoError(t, err)
	assert.Empty(t, remoteTrail)
}

func TestAuditFallsBackToRemote(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleAdmin)
	local, _ := storetest.NewLocal(t, model.RoleAdmin)
	a := New(EnvDesktop, remote, func(context.Context) (store.DataStore, error) {
		return dataOnly{local}, nil
	})
	ctx := context.Background()

	_, err := a.CreateAuditEntry(ctx, model.AuditEntryInput{Action: model.ActionSale})
	require.NoError(t, err)

	trail, err := a.GetAuditTrail(ctx)
	require.NoError(t, err)
	assert.Len(t, trail, 1)
	remoteTrail, err := remote.GetAuditTrail(ctx)
	require.NoError(t, err)
	assert.Len(t, remoteTrail, 1)
	assert.Equal(t, BackendLocal, a.Backend(ctx))
}

func TestLoaderIgnoresCancelledFirstCaller(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	local, _ := storetest.NewLocal(t, model.RoleStaff)
	a := New(EnvDesktop, remote, func(ctx context.Context) (store.DataStore, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return local, nil
	})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, BackendLocal, a.Backend(cancelled))
	assert.Equal(t, BackendLocal, a.Backend(context.Background()))
}

func TestQueriesRouteToLocal(t *testing.T) {
	remote, _ := storetest.NewLocal(t, model.RoleStaff)
	local, _ := storetest.NewLocal(t, model.RoleStaff)
	a := New(EnvDesktop, remote, func(context.Context) (store.DataStore, error) { return local, nil })
	ctx := context.Background()

	_, err := local.CreateProduct(ctx, model.ProductInput{Name: "Low", Price: 1, Stock: 1})
	require.NoError(t, err)
	_, err = remote.CreateProduct(ctx, model.ProductInput{Name: "Remote low", Price: 1, Stock: 1})
	require.NoError(t, err)

	low, err := a.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Low", low[0].Name)

	sales, err := a.GetSalesBetween(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, sales)
}
