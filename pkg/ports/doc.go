/*
Package ports defines the driven ports (interfaces) of the damascout router.

These interfaces decouple routing from the hosts that display output, allowing
the router to work with terminals, embedded JavaScript runtimes, browsers,
Redis, and HTTP event streams.

# Key Interfaces

  - Sink: optional external receiver of error and result reports.
  - Console: the always-available diagnostic stream.
  - Observer: notified of every routing decision (metrics).
*/
package ports
