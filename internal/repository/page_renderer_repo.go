package repository

import (
	"context"
	"errors"
)

var (
	ErrRenderTimeout    = errors.New("page render timed out")
	ErrNavigationFailed = errors.New("page navigation failed")
)

// PageRendererRepository loads a page and returns its rendered HTML.
type PageRendererRepository interface {
	Render(ctx context.Context, url string) (string, error)
}
