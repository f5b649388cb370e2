/*
Package transport provides small stateless helpers shared by the executors:

  - authentication application (Basic / Bearer)
  - header and query-param filtering against the per-request disabled sets
  - http(s) -> ws(s) URL conversion
  - Server-Sent-Events line framing

Everything here is pure and safe for concurrent use.
*/
package transport
