package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/pagewizard/pkg/ports"
)

// Middleware allows wrapping a CredentialStore to add behavior.
type Middleware func(ports.CredentialStore) ports.CredentialStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.CredentialStore, mws ...Middleware) ports.CredentialStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

var errListUnsupported = errors.New("underlying store cannot list profiles")

func listThrough(ctx context.Context, next ports.CredentialStore) ([]string, error) {
	lister, ok := next.(ports.CredentialLister)
	if !ok {
		return nil, errListUnsupported
	}
	return lister.List(ctx)
}
