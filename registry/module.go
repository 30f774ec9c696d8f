package registry

// Module groups related type registrations, the way an application wires a
// feature area in one place. Register must only publish descriptors; it
// runs during startup, before any engine exists.
type Module interface {
	Register(r *Registry) error
}

// Install applies modules in order and stops at the first failure, so a
// duplicate registration surfaces before the process starts serving.
func (r *Registry) Install(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(r *Registry) error

func (f ModuleFunc) Register(r *Registry) error { return f(r) }
