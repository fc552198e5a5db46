package platform

import (
	"github.com/harrowhq/harrow/pkg/core"
)

// New builds a ready-to-use core.Service over a corpus at the given path.
// Options are parsed by Init, which handles environment setup (path,
// directories, Git).
func New(path string, opts ...Option) (*core.Service, error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	service := core.NewService(repo)
	if size, ok := o.config["event_buffer"].(int); ok && size > 0 {
		service.SetEventBuffer(size)
	}

	return service, nil
}
