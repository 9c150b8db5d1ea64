package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct{ got []string }

func (r *recorder) Publish(_ context.Context, e Event) { r.got = append(r.got, e.Event) }

func TestMulti_PublishesInOrderAndSkipsNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, b, Nop{}}

	m.Publish(context.Background(), New(StockChanged, map[string]interface{}{"productId": "p1"}))
	m.Publish(context.Background(), New(LowStock, nil))

	assert.Equal(t, []string{StockChanged, LowStock}, a.got)
	assert.Equal(t, a.got, b.got)
}

func TestNew_StampsUTC(t *testing.T) {
	e := New(SaleCompleted, nil)
	assert.Equal(t, SaleCompleted, e.Event)
	assert.Equal(t, "UTC", e.Timestamp.Location().String())
}
