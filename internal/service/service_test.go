package service

import (
	"context"
	"sync"
	"testing"

	"retailpos/internal/events"
	"retailpos/internal/model"
	"retailpos/internal/store/storetest"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

func newTestStore(t *testing.T, role string) (Store, *model.User) {
	t.Helper()
	s, user := storetest.NewLocal(t, role)
	return s, user
}

func seedProduct(t *testing.T, s Store, name string, price float64, stock int) *model.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), model.ProductInput{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}
