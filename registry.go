package crudy

import (
	"fmt"
	"sort"
)

// Registry maps resource names to their CRUD operations.
type Registry map[string]*Resource

// NewRegistry builds one Resource per entry of endpoints (name → base URL),
// all sharing the same resolved options. The result has exactly the keys of endpoints.
//
//	api := crudy.NewRegistry(map[string]string{
//	    "users": "https://api.example.com/users",
//	    "posts": "https://api.example.com/posts",
//	}, crudy.WithHooks(hooks))
//	posts, err := api["posts"].List(ctx, nil)
func NewRegistry(endpoints map[string]string, opts ...Option) Registry {
	o := resolveOptions(opts)
	reg := make(Registry, len(endpoints))
	for name, baseURL := range endpoints {
		reg[name] = newResource(baseURL, o)
	}
	return reg
}

// Names returns the registered resource names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named resource, or an error wrapping ErrUnknownResource.
func (r Registry) Lookup(name string) (*Resource, error) {
	res, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownResource, name)
	}
	return res, nil
}
