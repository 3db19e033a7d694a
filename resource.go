package crudy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Resource is the set of CRUD operations for the collection at a base URL.
// All methods are safe for concurrent use.
type Resource struct {
	baseURL string
	d       *dispatcher
}

// New returns the CRUD operations for the collection at baseURL.
//
//	users := crudy.New("https://api.example.com/users")
//	user, err := users.Get(ctx, 1, nil)
//
// Options are resolved once here and never re-read.
func New(baseURL string, opts ...Option) *Resource {
	return newResource(baseURL, resolveOptions(opts))
}

func newResource(baseURL string, o *options) *Resource {
	return &Resource{
		baseURL: baseURL,
		d:       &dispatcher{opts: o},
	}
}

// URL returns the base URL of the resource.
func (r *Resource) URL() string {
	return r.baseURL
}

// Get fetches a single item: GET {base}/{id}{query}.
func (r *Resource) Get(ctx context.Context, id any, query Query) (any, error) {
	return r.d.dispatch(ctx, r.get(id, query))
}

// List fetches the collection: GET {base}{query}.
func (r *Resource) List(ctx context.Context, query Query) (any, error) {
	return r.d.dispatch(ctx, r.list(query))
}

// Create posts a new item: POST {base} with data as the JSON body.
func (r *Resource) Create(ctx context.Context, data any) (any, error) {
	return r.d.dispatch(ctx, r.create(data))
}

// Update replaces an item: PUT {base}/{id} with data as the JSON body.
func (r *Resource) Update(ctx context.Context, id, data any) (any, error) {
	return r.d.dispatch(ctx, r.update(id, data))
}

// Delete removes an item: DELETE {base}/{id}{query}.
// No validators apply. The decoded response body, usually nil, is returned.
func (r *Resource) Delete(ctx context.Context, id any, query Query) (any, error) {
	return r.d.dispatch(ctx, r.delete(id, query))
}

func (r *Resource) get(id any, query Query) call {
	return call{verb: http.MethodGet, url: r.itemURL(id) + query.Encode(), op: OpGet}
}

func (r *Resource) list(query Query) call {
	return call{verb: http.MethodGet, url: r.baseURL + query.Encode(), op: OpList}
}

func (r *Resource) create(data any) call {
	return call{verb: http.MethodPost, url: r.baseURL, body: data, op: OpCreate}
}

func (r *Resource) update(id, data any) call {
	return call{verb: http.MethodPut, url: r.itemURL(id), body: data, op: OpUpdate}
}

func (r *Resource) delete(id any, query Query) call {
	return call{verb: http.MethodDelete, url: r.itemURL(id) + query.Encode()}
}

func (r *Resource) itemURL(id any) string {
	return r.baseURL + "/" + url.PathEscape(fmt.Sprint(id))
}
