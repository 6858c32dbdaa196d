//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"messageapi/internal/api"
	"messageapi/internal/fixtures"
	"messageapi/internal/grpcsrv"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideStore,
		ProvideMessageStore,
		ProvideAPIConfig,
		api.NewHandler,
		api.NewRouter,
		grpcsrv.NewServer,
		fixtures.NewLoader,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

func InitializeFixtures() (*FixturesApp, func(), error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideStore,
		fixtures.NewLoader,
		wire.Struct(new(FixturesApp), "*"),
	)
	return nil, nil, nil
}
