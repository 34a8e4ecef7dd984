/*
Package logging implements the application log setup and the Apache
combined access log of the dispatcher.

# Application Log

The application log uses the logrus package:

https://github.com/sirupsen/logrus

To send messages to the application log, import logrus and use its
methods. Example:

	import log "github.com/sirupsen/logrus"

	func doSomething() {
		log.Errorf("nothing to do")
	}

During startup initialization, it is possible to redirect the log output
from the default /dev/stderr to another writer, to set the level, to
switch to JSON entries, and to set a common prefix for each entry. Setting
the prefix may be a good idea when the access log is enabled and its
output is the same as the one of the application log, to make it easier to
split the output for diagnostics.

# Access Log

The access log prints HTTP access information in the Apache combined
access log format, extended with the duration in milliseconds, the
requested host and the flow id. To output entries, use LogAccess. The
accessLog middleware and the dispatcher call it for every served request.

During initialization, it is possible to redirect the access log output
from the default /dev/stderr to another writer, to print JSON entries, or
to completely disable the access log.
*/
package logging
