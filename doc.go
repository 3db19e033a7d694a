// Package crudy generates uniform CRUD operations for REST-style resources.
//
// A Resource is built from a base URL and a set of options:
//
//	users := crudy.New("https://api.example.com/users",
//	    crudy.WithHooks(crudy.Hooks{
//	        OnError: func(ctx context.Context, verb string, err error) {
//	            slog.ErrorContext(ctx, "users call failed", "method", verb, "error", err)
//	        },
//	    }),
//	    crudy.WithSchemas(crudy.Schemas{
//	        Request:  crudy.RequestSchemas{Create: crudy.Struct[NewUser]()},
//	        Response: crudy.ResponseSchemas{Get: crudy.Struct[User]()},
//	    }),
//	)
//
//	u, err := users.Get(ctx, 1, nil)                         // GET  .../users/1
//	page, err := users.List(ctx, crudy.Q("page", 1))         // GET  .../users?page=1
//	created, err := users.Create(ctx, NewUser{Name: "Ann"})  // POST .../users
//
// Every operation runs the same pipeline: Before hook, request validation,
// serialization, transport, status check, JSON decoding, deserializer,
// response validation, then exactly one of OnSuccess or OnError.
//
// Non-2xx responses are reported as *HTTPError with the message
// "HTTP Error: {status} {statusText}". Validator failures are reported as
// *ValidationError. Transport errors are returned unchanged.
//
// Client wraps a Resource with Go types, and Registry builds many resources
// sharing one set of options.
package crudy
