package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/aretw0/sirsim/pkg/ports"
)

// ErrReadOnly is returned by writes through a read-only store.
var ErrReadOnly = errors.New("run store is read-only")

type readOnlyMiddleware struct {
	ports.RunStore
}

// ReadOnly rejects Save and Delete while passing reads through.
func ReadOnly() Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &readOnlyMiddleware{RunStore: next}
	}
}

func (m *readOnlyMiddleware) Save(context.Context, *domain.Run) error {
	return ErrReadOnly
}

func (m *readOnlyMiddleware) Delete(context.Context, string) error {
	return ErrReadOnly
}
