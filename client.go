package crudy

import "context"

// Client is a typed view over a Resource. Req is the payload type for
// Create and Update, Res the item type returned by Get, Create and Update.
//
// Results are converted to Res inside the dispatch pipeline, so a response
// that cannot be converted is reported through OnError like any other
// validation failure.
type Client[Req, Res any] struct {
	r *Resource
}

// NewClient returns a typed client for the collection at baseURL.
func NewClient[Req, Res any](baseURL string, opts ...Option) *Client[Req, Res] {
	return Typed[Req, Res](New(baseURL, opts...))
}

// Typed wraps an existing Resource, for example one taken from a Registry.
func Typed[Req, Res any](r *Resource) *Client[Req, Res] {
	return &Client[Req, Res]{r: r}
}

// Resource returns the untyped Resource behind c.
func (c *Client[Req, Res]) Resource() *Resource {
	return c.r
}

// Get fetches a single item.
func (c *Client[Req, Res]) Get(ctx context.Context, id any, query Query) (Res, error) {
	dc := c.r.get(id, query)
	dc.decode = decodeAs[Res]
	return result[Res](c.r.d.dispatch(ctx, dc))
}

// List fetches the collection.
func (c *Client[Req, Res]) List(ctx context.Context, query Query) ([]Res, error) {
	dc := c.r.list(query)
	dc.decode = decodeAs[[]Res]
	return result[[]Res](c.r.d.dispatch(ctx, dc))
}

// Create posts a new item.
func (c *Client[Req, Res]) Create(ctx context.Context, data Req) (Res, error) {
	dc := c.r.create(data)
	dc.decode = decodeAs[Res]
	return result[Res](c.r.d.dispatch(ctx, dc))
}

// Update replaces an item.
func (c *Client[Req, Res]) Update(ctx context.Context, id any, data Req) (Res, error) {
	dc := c.r.update(id, data)
	dc.decode = decodeAs[Res]
	return result[Res](c.r.d.dispatch(ctx, dc))
}

// Delete removes an item. Any response body is ignored.
func (c *Client[Req, Res]) Delete(ctx context.Context, id any, query Query) error {
	_, err := c.r.d.dispatch(ctx, c.r.delete(id, query))
	return err
}

func decodeAs[T any](v any) (any, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	return convert[T](v)
}

func result[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
