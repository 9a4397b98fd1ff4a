package nightlight

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// OnTeardown registers fn to run when the app shuts down.
func (cmd *Commands) OnTeardown(fn func()) *Commands {
	cmd.app.teardown = append(cmd.app.teardown, fn)
	return cmd
}

func (cmd *Commands) Stop() {
	cmd.app.Stop()
}
