/*
Package domain contains the core models shared by the damascout router and its adapters.

It is kept free of I/O: adapters in pkg/adapters translate these types to
consoles, JavaScript hosts, Redis, and HTTP streams.

# Key Entities

  - Kind: the output channel of a report (error or result).
  - Report: the serialisable envelope used by streaming and persisting sinks.
  - ErrorPolicy: whether error reports are forwarded to a sink or kept on the console.
  - Destination: where a routed report ended up, as seen by observers.
*/
package domain
