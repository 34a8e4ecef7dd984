/*
Package routefile implements a DataClient reading the route definitions
from a YAML or JSON document, and watching the file for changes.

The document contains the ordered list of the route definitions under the
routes key:

	routes:
	- id: user
	  condition: /users/:id
	  middleware:
	  - name: flowId
	  handler:
	    name: inlineContent
	    args: ["Hello"]
	- id: admin
	  condition: [[url, /admin/*rest], ["!method", POST]]
	  handler:
	    name: status
	    args: [403]

Conditions are in the loosely typed form accepted by the condition
factory: a URL pattern string, or a list starting with a registered
condition type, or a list of lists composing several conditions.

(See the DataClient interface in the routecond/routing package.)
*/
package routefile
