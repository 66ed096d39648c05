package service

import (
	"context"

	"go.uber.org/multierr"
)

// Component has a lifecycle managed by Open and Close.
type Component interface {
	Open(ctx context.Context) error
	Close() error
}

// OpenAll opens each component in order. If one fails, the components already opened are closed
// in reverse order and the combined error is returned.
func OpenAll(ctx context.Context, components ...Component) error {
	for i, c := range components {
		if err := c.Open(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				err = multierr.Append(err, components[j].Close())
			}
			return err
		}
	}
	return nil
}

// CloseAll closes each component in order and returns every error encountered.
func CloseAll(components ...Component) error {
	var err error
	for _, c := range components {
		err = multierr.Append(err, c.Close())
	}
	return err
}
