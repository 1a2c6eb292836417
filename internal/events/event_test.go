package events_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastline/order-pipeline/internal/events"
)

func TestDecode(t *testing.T) {
	t.Run("status event", func(t *testing.T) {
		evt, err := events.Decode([]byte(`{"type":"ORDER_PREPARING","orderId":"O1","status":"Preparing"}`))
		require.NoError(t, err)
		assert.Equal(t, events.EvtOrderPreparing, evt.Type)
		assert.Equal(t, "O1", evt.OrderID)
		assert.Equal(t, "Preparing", evt.Status)
		assert.True(t, evt.IsStatusBearing())
	})

	t.Run("creation event has no status", func(t *testing.T) {
		evt, err := events.Decode([]byte(`{"type":"ORDER_CREATED","orderId":"O1"}`))
		require.NoError(t, err)
		assert.Equal(t, events.EvtOrderCreated, evt.Type)
		assert.False(t, evt.IsStatusBearing())
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := events.Decode([]byte(`{"type":`))
		var decodeErr *events.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := events.Decode([]byte(`{"orderId":"O1"}`))
		var decodeErr *events.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("unknown type is not a decode failure", func(t *testing.T) {
		_, err := events.Decode([]byte(`{"type":"ORDER_EXPLODED","orderId":"O1"}`))
		assert.ErrorIs(t, err, events.ErrUnknownType)
		var decodeErr *events.DecodeError
		assert.False(t, errors.As(err, &decodeErr))
	})

	t.Run("missing orderId", func(t *testing.T) {
		_, err := events.Decode([]byte(`{"type":"ORDER_DELIVERED","status":"Delivered"}`))
		var decodeErr *events.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("missing status on non-creation type", func(t *testing.T) {
		_, err := events.Decode([]byte(`{"type":"ORDER_ON_THE_WAY","orderId":"O1"}`))
		var decodeErr *events.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("all lifecycle types decode", func(t *testing.T) {
		for _, typ := range []string{"ORDER_PREPARING", "ORDER_PICK_UP_READY", "ORDER_ON_THE_WAY", "ORDER_DELIVERED", "ORDER_CANCELLED"} {
			_, err := events.Decode([]byte(`{"type":"` + typ + `","orderId":"O1","status":"x"}`))
			assert.NoError(t, err, typ)
		}
	})
}
