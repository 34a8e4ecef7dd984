/*
Package routecond provides an HTTP request router selecting the routes by
composable conditions, with a per-route middleware chain and a central
translation of the failures to responses.

Routecond loads the route definitions from multiple data sources and
updates the routing table without being restarted. Each route consists of:

  - a condition deciding whether the route applies to a request
  - an ordered list of middleware units wrapping the handler
  - a handler producing the response

The routes are evaluated in the order of their definition, and the first
route whose condition is satisfied serves the request.

# Quickstart

Create a file with a route:

	cat > routes.yaml <<EOF
	routes:
	- id: hello
	  condition: /hello/:name
	  middleware:
	  - name: setResponseHeader
	    args: [X-Hello, "${name}"]
	  handler:
	    name: inlineContent
	    args: ["Hello, world!"]
	EOF

Start routecond with the route file:

	routecond -routes-file routes.yaml

Check the route:

	curl -i localhost:9090/hello/routecond

# Request model

Every incoming request is converted into an immutable snapshot with six
sources of values: query, body, cookie, files, server and headers. The
method of the request is derived in the order of precedence: the _method
field of the query or the body, the X-HTTP-Method-Override header, the
REQUEST_METHOD server value, and finally GET. See the request package.

# Conditions

A condition is given in a loosely typed form, as it appears in the route
files:

  - a string is a URL pattern, e.g. /users/:id or /assets/*path
  - a list starting with a string is a registered condition type and its
    arguments, e.g. [method, POST] or [header, X-Requested-With]
  - a condition type prefixed with ! is negated, e.g. ["!header", X-Admin]
  - a list of lists is the conjunction of the contained conditions,
    evaluated in order, stopping at the first unsatisfied one

In Go code, functions can be used as predicates, alone or at the head of a
list followed by their arguments. The wildcards captured by the URL
patterns are available to the middleware and the handlers as the
parameters of the request.

See the routing package for the condition factory and the registry, and
the conditions subpackages for the built-in condition types.

# Middleware

The middleware units of a route run in order, each of them calling the
next one, the last one calling the handler. A unit can short-circuit the
chain by returning a response or a failure without calling the next one.
Built-in units include csrf protection, panic recovery, flow ids, rate
limiting, circuit breakers, header manipulation, tracing and access log
control. See the middleware package and its subpackages.

# Failures

Failures are translated to responses centrally:

  - an invalid CSRF token results in a 403 "are you sure" page
  - a missing route or a not found failure results in 404
  - with debug mode off, any other failure results in a generic 500
  - with debug mode on, a diagnostic document is rendered with 500

See the errorhandler package.

# Extending routecond

Routecond can be extended with custom condition types, middleware units,
handlers and route data sources, by passing them in the Options to Run:

	routecond.Run(routecond.Options{
		Address:          ":9090",
		RoutesFiles:      []string{"routes.yaml"},
		CustomConditions: []routing.ConditionSpec{myCondition},
		CustomMiddleware: []middleware.Spec{myMiddleware},
	})
*/
package routecond
