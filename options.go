package crudy

import "log/slog"

// Operation names the logical CRUD operation of a call. It selects the
// validators to apply and is distinct from the HTTP verb.
type Operation string

const (
	OpGet    Operation = "get"
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Serializer transforms a request payload before it is JSON-encoded.
type Serializer func(body any) (any, error)

// Deserializer transforms a decoded JSON response before validation.
type Deserializer func(data any) (any, error)

// Option configures a Resource or a Registry.
type Option func(*options)

// options is the resolved configuration bundle. It is built once by New and
// never modified afterwards.
type options struct {
	transport    Transport
	middleware   []Middleware
	serializer   Serializer
	deserializer Deserializer
	hooks        Hooks
	schemas      *Schemas
	logger       *slog.Logger
}

// WithTransport sets the Transport. Defaults to DefaultTransport.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithMiddleware wraps the Transport with mws. The first middleware is the
// outer-most one. Repeated calls append.
func WithMiddleware(mws ...Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, mws...) }
}

// WithSerializer sets the request payload transform. Defaults to identity.
func WithSerializer(fn Serializer) Option {
	return func(o *options) { o.serializer = fn }
}

// WithDeserializer sets the response payload transform. Defaults to identity.
func WithDeserializer(fn Deserializer) Option {
	return func(o *options) { o.deserializer = fn }
}

// WithHooks sets the lifecycle hooks. Repeated calls are combined with ChainHooks.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = ChainHooks(o.hooks, h) }
}

// WithSchemas sets the per-operation validators.
func WithSchemas(s Schemas) Option {
	return func(o *options) { o.schemas = &s }
}

// WithLogger sets the logger used for dispatch diagnostics.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func identity(v any) (any, error) { return v, nil }

func resolveOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = DefaultTransport
	}
	if len(o.middleware) > 0 {
		o.transport = Chain(o.transport, o.middleware...)
		o.middleware = nil
	}
	if o.serializer == nil {
		o.serializer = identity
	}
	if o.deserializer == nil {
		o.deserializer = identity
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
