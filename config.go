package hxstore

import (
	"fmt"

	"github.com/pthm/hxstore/lib/config"
	"github.com/pthm/hxstore/lib/state"
)

// FromConfig builds a component from a YAML component definition.
//
// Handler, transform and rule names in f are resolved through b. opts
// supplies the error handler and logger; the file's strictToggle flag is
// applied on top.
func FromConfig(f *config.File, b config.Bindings, render RenderFunc, opts state.Options) (*Component, error) {
	opts.StrictToggle = opts.StrictToggle || f.StrictToggle

	var (
		c   *Component
		err error
	)
	switch f.Kind {
	case config.KindStore, "":
		cfg, cerr := f.StoreConfig(b)
		if cerr != nil {
			return nil, cerr
		}
		c, err = NewStore(f.Name, StoreOptions{
			Descriptors: cfg.Descriptors,
			Rules:       cfg.Rules,
			Render:      render,
			Omit:        f.Omit,
			Options:     opts,
		})
	case config.KindContainer:
		cfg, cerr := f.ContainerConfig(b)
		if cerr != nil {
			return nil, cerr
		}
		c, err = NewContainer(f.Name, ContainerOptions{
			State:    cfg.State,
			Rules:    cfg.Rules,
			Handlers: cfg.Handlers,
			Render:   render,
			Omit:     f.Omit,
			Options:  opts,
		})
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidKind, f.Kind)
	}
	if err != nil {
		return nil, err
	}
	if f.Sensitive {
		c.Sensitive()
	}
	return c, nil
}
