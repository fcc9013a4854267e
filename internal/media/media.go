// Package media stores user-facing assets (avatars) on an external media
// host and hands back stable references to them.
package media

import (
	"context"
	"io"
)

// Asset identifies a stored object: the key under which the host knows it
// and the public URL it resolves to.
type Asset struct {
	PublicID string
	URL      string
}

// Uploader is the media host collaborator. Destroy of a missing object is
// not an error; object stores treat deletes as idempotent.
type Uploader interface {
	Upload(ctx context.Context, filename string, contentType string, r io.Reader) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
