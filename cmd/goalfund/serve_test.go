package main

import (
	"net"
	"testing"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/config"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestServeOptions(t *testing.T) {
	catalog, err := config.DefaultCatalog()
	require.NoError(t, err)
	reg, err := profiles.New(catalog.Profiles, domain.DefaultCapitalPreservation())
	require.NoError(t, err)
	env := &environment{
		catalog:  catalog,
		registry: reg,
		engine:   calculation.NewCalculationEngine(reg),
		base:     zerolog.Nop(),
	}

	var ln net.Listener
	app := fxtest.New(t, serveOptions(env, "127.0.0.1:0"), fx.Populate(&ln))
	app.RequireStart()

	status, body, err := fasthttp.Get(nil, "http://"+ln.Addr().String()+"/goals")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), "e-bike")

	app.RequireStop()
}

func TestServeOptions_BadAddress(t *testing.T) {
	catalog, err := config.DefaultCatalog()
	require.NoError(t, err)
	reg, err := profiles.New(catalog.Profiles, domain.DefaultCapitalPreservation())
	require.NoError(t, err)
	env := &environment{catalog: catalog, registry: reg, engine: calculation.NewCalculationEngine(reg), base: zerolog.Nop()}

	app := fx.New(serveOptions(env, "not-an-address"))
	assert.ErrorContains(t, app.Err(), "listening on not-an-address")
}
