package nightlight

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name  string
	calls int
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestResource(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Nil(t, Resource[MockResource1](app))

	r := NewMockResource1("r")
	app.Commands().AddResources(r)
	assert.Same(t, r, Resource[MockResource1](app))
	assert.Nil(t, Resource[MockResource1](nil))
}

func TestApp_TickInjectsResources(t *testing.T) {
	app := NewAppBuilder().Build()
	r1, r2 := NewMockResource1("one"), NewMockResource2("two")
	app.Commands().AddResources(r1, r2)

	var seen string
	app.UseSystem(System(func(a *MockResource1, b *MockResource2, cmd *Commands) {
		a.calls++
		seen = a.name + b.name
		require.NotNil(t, cmd)
	}))

	app.Tick()
	app.Tick()
	assert.Equal(t, 2, r1.calls)
	assert.Equal(t, "onetwo", seen)
}

func TestApp_StageOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []string
	record := func(name string) func() {
		return func() { order = append(order, name) }
	}

	app.UseSystem(System(record("render")).InStage(Render))
	app.UseSystem(System(record("prelude")).InStage(Prelude))
	app.UseSystem(System(record("update")))
	app.UseSystem(System(record("pre-render")).InStage(PreRender))

	custom := Stage{Name: "Lighting"}
	app.UseStage(custom, AfterStage(PreRender))
	app.UseSystem(System(record("lighting")).InStage(custom))

	app.Tick()
	assert.Equal(t, []string{"prelude", "update", "pre-render", "lighting", "render"}, order)
}

func TestApp_UnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.PanicsWithValue(t, "Stage Nowhere doesn't exist", func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Nowhere"}))
	})
	assert.PanicsWithValue(t, "Stage Nowhere not found", func() {
		app.UseStage(Stage{Name: "Other"}, BeforeStage(Stage{Name: "Nowhere"}))
	})
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(*MockResource2) {}))
	assert.Panics(t, app.Tick)
}

func TestApp_RunAndStop(t *testing.T) {
	app := NewAppBuilder().Build()
	ticks := 0
	app.UseSystem(System(func(cmd *Commands) {
		ticks++
		if ticks == 5 {
			cmd.Stop()
		}
	}))

	assert.Equal(t, 3, app.Run(3))
	assert.Equal(t, 2, app.Run(0))
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 0, app.Run(10))
}

func TestApp_ShutdownRunsTeardownInReverse(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []int
	cmd := app.Commands()
	cmd.OnTeardown(func() { order = append(order, 1) })
	cmd.OnTeardown(func() { order = append(order, 2) })

	app.Shutdown()
	app.Shutdown()
	assert.Equal(t, []int{2, 1}, order)
}
