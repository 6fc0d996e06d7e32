package interfaces

import "context"

// Renderer converts processed document source into an HTML fragment. It is
// treated as an opaque, possibly slow, possibly failing collaborator; the
// sync core never inspects the fragment beyond passing it to the remote
// write.
type Renderer interface {
	Render(ctx context.Context, source []byte) ([]byte, error)
}
