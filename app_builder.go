package nightlight

import (
	"reflect"
)

type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return &AppBuilder{app: app}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
