package nightlight

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App is a tick-driven host loop. The embedding simulation calls Tick once
// per frame; every stage runs its systems in registration order.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	teardown  []func()
	stopped   bool
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Tick runs every stage once.
func (app *App) Tick() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
}

// Run ticks until Stop is called or frames ticks have run. A frames value of
// zero or less runs until stopped.
func (app *App) Run(frames int) int {
	ran := 0
	for !app.stopped && (frames <= 0 || ran < frames) {
		app.Tick()
		ran++
	}
	return ran
}

func (app *App) Stop() {
	app.stopped = true
}

// Shutdown runs teardown hooks in reverse install order.
func (app *App) Shutdown() {
	for i := len(app.teardown) - 1; i >= 0; i-- {
		app.teardown[i]()
	}
	app.teardown = nil
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type T registered on app, or nil.
func Resource[T any](app *App) *T {
	if app == nil || app.resources == nil {
		return nil
	}
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil
	}
	typed, _ := r.(*T)
	return typed
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
