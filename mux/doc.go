// Package mux implements an action dispatcher: requests are mapped to
// execute methods of named actions, their path parameters are converted to
// the handler's parameter types and their forms are bound before the
// handler runs.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs)
//
// # Actions
//
// An action is named in lower camel-case; its words give the path prefix.
// Each execute is a handler taking *mux.Context first:
//
//	r := mux.NewRouter()
//	r.Action("productsPurchases",
//	    mux.Execute{Method: "index", Handler: func(c *mux.Context, productID int) error { ... }},
//	    mux.Execute{Method: "post$register", Handler: func(c *mux.Context, form *PurchaseForm) error { ... }},
//	)
//	r.Action(mux.RootAction, mux.Execute{Method: "index", Handler: home})
//	r.MustBoot()
//
// The index execute serves /products/purchases/3/, register serves
// /products/purchases/register/ for POST only. The root action serves "/".
//
// # URL Patterns
//
// Without a URLPattern an execute maps its method name (except index)
// followed by one {} per path parameter. A pattern places the parameters
// explicitly; @word marks repeat the words of the method name:
//
//	mux.Execute{Method: "seaLand", URLPattern: "{}/@word/@word", Handler: ...} // /action/1/sea/land/
//
// Placeholders of numeric and UUID parameters only match those values, so
// a numeric and a string execute can share one depth. When several executes
// match, the one with more literal segments wins, then the one with more
// constrained placeholders, then one with an explicit verb, then the first
// declared.
//
// # Parameters
//
// Path parameters are strings, bools, numbers, uuid.UUID or any
// encoding.TextUnmarshaler. Trailing optional.Value parameters may be
// absent from the path. A last parameter whose struct type name ends with
// Form is bound from query and post-form values; one ending with Body, or a
// slice of forms, is parsed from the JSON body:
//
//	func(c *mux.Context, id int, tab optional.Value[string]) error
//	func(c *mux.Context, form *SeaForm) error
//	func(c *mux.Context, body []LandBody) error
//
// Form values are bound by rivaas.dev/binding. Fields are named by the form
// tag or by their Go name, matched without regard to case, so ?userId=7
// fills UserID. Nested struct values read "stage.title" keys, maps read a
// JSON object and empty values leave the field at its zero value. Optional
// fields are pointers; pointers to structs and lists of structs belong in
// a Body. Router.FormOptions passes further binding options.
// Validate tags are checked for consistency when the execute is registered
// and applied by Context.Validate.
//
// # Definition Errors
//
// Malformed names, patterns, parameter lists and form tags are kept on the
// action. Router.Err joins them and Router.MustBoot panics on them. An
// action with errors never matches.
//
// # Restful Paths
//
// With a restful router, natural resource paths reach actions marked
// restful:
//
//	r.Restful(restful.NewNumericRouter())
//	r.Action("productsPurchases", ...).Restful()
//
// /products/3/purchases/7/ is then resolved as /products/purchases/3/7/ and
// Router.URL builds the natural form back.
//
// # Error Handling
//
// NotFoundHandler is called when no execute matches a request (RFC 9110
// Section 15.5.5). MethodNotAllowedHandler is called when an execute
// matches the path but not the method; the Allow header is set before it
// is invoked (RFC 9110 Section 15.5.6).
//
// Errors returned by executes go to ErrorHandler, DefaultErrorHandler when
// nil: *HTTPError replies with its code, *ValidationError with 400 and the
// failed fields as JSON, *BindError with 400, anything else with 500.
//
// # Route Matching
//
// Use Router.Match to test whether a request matches without dispatching
// it:
//
//	var match mux.RouteMatch
//	if r.Match(req, &match) {
//	    // match.Action, match.Route, match.Values are populated
//	}
//
// # Middleware
//
// Middleware wraps matched handlers only:
//
//	r.Use(mux.MiddlewareFunc(loggingMiddleware))
//	r.Use(mux.CORSMethodMiddleware(r))
//
// # Path Cleaning
//
// By default, the router cleans request paths by removing dot segments per
// RFC 3986 Section 5.2.4. SkipClean disables this behavior.
package mux
