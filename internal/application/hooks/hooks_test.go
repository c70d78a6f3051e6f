package hooks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-api/internal/application/hooks"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
)

func TestRegistry_EjecutaEnOrden(t *testing.T) {
	var calls []string
	var r hooks.Registry[entity.Customer]
	r.OnCreate(func(_ context.Context, who entity.Identity, c *entity.Customer) error {
		calls = append(calls, "owner")
		c.UserID = who.UserID
		return nil
	}).OnCreate(func(_ context.Context, _ entity.Identity, c *entity.Customer) error {
		calls = append(calls, "check:"+c.UserID)
		return nil
	})

	c := &entity.Customer{}
	require.NoError(t, r.RunCreate(context.Background(), entity.Identity{UserID: "u1"}, c))
	assert.Equal(t, []string{"owner", "check:u1"}, calls)
	assert.Equal(t, "u1", c.UserID)
}

func TestRegistry_ErrorDetieneLaCadena(t *testing.T) {
	boom := errors.New("boom")
	called := false
	var r hooks.Registry[entity.Invoice]
	r.OnUpdate(func(context.Context, entity.Identity, *entity.Invoice) error { return boom }).
		OnUpdate(func(context.Context, entity.Identity, *entity.Invoice) error {
			called = true
			return nil
		})

	err := r.RunUpdate(context.Background(), entity.Identity{}, &entity.Invoice{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestRegistry_CreateYUpdateSonIndependientes(t *testing.T) {
	var r hooks.Registry[entity.User]
	r.OnUpdate(func(context.Context, entity.Identity, *entity.User) error { return errors.New("solo update") })

	assert.NoError(t, r.RunCreate(context.Background(), entity.Identity{}, &entity.User{}))
}
