/*
Package types defines the data model shared by the execution engine.

# Overview

The types package provides shared type definitions for:
  - Request: a fully-resolved request description (REST, GraphQL, WebSocket)
  - SentRequest: the as-transmitted echo after header/param filtering
  - Response: the uniform outcome for both request/response and streaming
  - StreamEvent: one timestamped unit of streaming transcript output

# Request Variants

Request is a tagged union over Kind:

	rest       -> Rest options (method, query params, body, form-data)
	graphql    -> GraphQL options (query, variables, operation, transport)
	websocket  -> WebSocket options (subprotocols, initial message)

Common fields (URL, headers, disabled-header set, auth) apply to every
variant. Headers present in DisabledHeaders are kept in the map but are
never transmitted; SentRequest reflects the filtered reality.

# Response Contract

A Response is always produced, even on total failure. Status 0 is reserved
for transport-level failures where no real status was obtained. Streaming
executions carry an ordered StreamEvent transcript; ordering is receipt
order and is never changed after capture.
*/
package types
