package service

import (
	"context"
	"testing"

	"retailpos/internal/model"
	"retailpos/internal/store/local"
	"retailpos/internal/store/storetest"
	"retailpos/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLogin_RecordsClientInfo(t *testing.T) {
	s, user := newTestStore(t, model.RoleAdmin)
	svc := NewAuditService(s)
	ctx := WithClientInfo(context.Background(), "10.0.0.7", "")

	svc.LogLogin(ctx, user)

	trail, err := s.GetAuditTrail(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	entry := trail[0]
	assert.Equal(t, model.ActionLogin, entry.Action)
	assert.Equal(t, user.Name, entry.UserName)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.7", *entry.IPAddress)
	assert.Equal(t, "Unknown", entry.Details["userAgent"])
}

func TestLogEvent_SkipsWithoutActor(t *testing.T) {
	s := local.NewStore(storetest.OpenDB(t), storetest.Identity{})
	svc := NewAuditService(s)
	ctx := context.Background()

	svc.LogInventoryAdd(ctx, &model.Product{ID: "p1", Name: "Tea"})

	trail, err := s.GetAuditTrail(ctx)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestGetAuditLogs_Pages(t *testing.T) {
	s, user := newTestStore(t, model.RoleAdmin)
	svc := NewAuditService(s)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.LogLogin(ctx, user)
	}

	page, err := svc.GetAuditLogs(ctx, pagination.New(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)

	last, err := svc.GetAuditLogs(ctx, pagination.New(3, 2))
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)

	beyond, err := svc.GetAuditLogs(ctx, pagination.New(9, 2))
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestGetAuditLogs_StaffForbidden(t *testing.T) {
	s, user := newTestStore(t, model.RoleStaff)
	svc := NewAuditService(s)
	ctx := context.Background()
	svc.LogLogin(ctx, user)

	_, err := svc.GetAuditLogs(ctx, pagination.New(1, 20))
	assert.ErrorIs(t, err, ErrForbidden)
}
