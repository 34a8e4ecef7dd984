/*
Package routing implements matching of requests to a continuously
updatable, ordered set of routes.

# Request Evaluation

Every route has a condition. The routes are evaluated in the order of their
definitions, and the first route whose condition is satisfied by the
request is the match. The values captured by the condition, e.g. the
wildcards of a url pattern, are returned together with the route.

# Condition Definitions

Conditions are defined in a short, loosely typed form, that is parsed by
the Factory:

- a string is a url pattern: "/users/:id"

- a list starting with a condition type name, followed by the arguments of
the condition: ["method", "GET", "HEAD"]

- a type name prefixed with ! negates the condition: ["!ajax"]

- a list of lists: all the nested conditions need to be satisfied:
[["method", "POST"], "/users/:id"]

- a predicate function, or a list starting with a predicate function,
followed by the arguments passed to it.

The condition type names are looked up in the Registry. The names are
case sensitive. Referencing a name that is neither registered nor callable
is an error reported when the route is loaded, and so is a registered type
that cannot be created with the provided arguments.

# Wildcards

The default url pattern grammar supports two kinds of wildcards:

- simple wildcard: e.g. /some/:wildcard/path. Simple wildcards are
matching a single name in the request path.

- freeform wildcard: e.g. /some/path/*wildcard. Freeform wildcards are
matching any number of names at the end of the request path. The captured
value starts with a slash.

A single * matches every path. The grammar can be replaced by setting
URLOptions.Compile in the Factory.

# Data Clients

Route definitions are not directly passed to the routing instance, but
they are loaded from clients that implement the DataClient interface.
The router initially loads the complete set of the routes from each
client, merges the different sets based on the route id, and converts
them into their runtime representation, with the conditions, middleware
and handlers created from the registries.

During operation, the router regularly polls the data clients for
updates, and, if an update is received, generates a new routing table. In
case of communication failure during polling, it reloads the whole set
of routes from the failing client.

Invalid route definitions are logged, reported in the metrics, and left
out from the table. The active set of routes from the last successful
update are used until the next successful update happens.
*/
package routing
