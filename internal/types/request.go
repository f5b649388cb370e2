package types

// RequestKind discriminates the request variants handled by the engine.
type RequestKind string

const (
	KindRest      RequestKind = "rest"
	KindGraphQL   RequestKind = "graphql"
	KindWebSocket RequestKind = "websocket"
)

// AuthMode selects how credentials are applied to the outgoing exchange.
type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthBasic  AuthMode = "basic"
	AuthBearer AuthMode = "bearer"
)

// Auth holds the authentication mode and its credentials.
type Auth struct {
	Mode     AuthMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty"`
}

// BodyKind identifies the payload format of a REST request body.
type BodyKind string

const (
	BodyJSON     BodyKind = "json"
	BodyXML      BodyKind = "xml"
	BodyHTML     BodyKind = "html"
	BodyText     BodyKind = "text"
	BodyJS       BodyKind = "js"
	BodyFormData BodyKind = "form-data"
)

// FormField is one text field of a multipart form-data body.
type FormField struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// FormFile is one file attachment of a multipart form-data body.
// ContentType is optional; when empty it is inferred from the file extension.
type FormFile struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

// RestOptions carries the REST-only fields of a request.
type RestOptions struct {
	Method         string            `json:"method" yaml:"method"`
	Params         map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	DisabledParams map[string]bool   `json:"disabledParams,omitempty" yaml:"disabledParams,omitempty"`
	Body           string            `json:"body,omitempty" yaml:"body,omitempty"`
	BodyKind       BodyKind          `json:"bodyKind,omitempty" yaml:"bodyKind,omitempty"`
	FormFields     []FormField       `json:"formFields,omitempty" yaml:"formFields,omitempty"`
	FormFiles      []FormFile        `json:"formFiles,omitempty" yaml:"formFiles,omitempty"`
}

// GraphQLOperation is the declared operation kind of a GraphQL request.
type GraphQLOperation string

const (
	OperationQuery        GraphQLOperation = "query"
	OperationMutation     GraphQLOperation = "mutation"
	OperationSubscription GraphQLOperation = "subscription"
)

// SubscriptionTransport selects the wire transport for GraphQL subscriptions.
type SubscriptionTransport string

const (
	TransportWebSocket SubscriptionTransport = "websocket"
	TransportSSE       SubscriptionTransport = "sse"
)

// GraphQLOptions carries the GraphQL-only fields of a request.
// Variables holds the raw JSON text of the variables object; it may be empty.
type GraphQLOptions struct {
	Query         string                `json:"query" yaml:"query"`
	Variables     string                `json:"variables,omitempty" yaml:"variables,omitempty"`
	OperationName string                `json:"operationName,omitempty" yaml:"operationName,omitempty"`
	Operation     GraphQLOperation      `json:"operation" yaml:"operation"`
	Transport     SubscriptionTransport `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// WebSocketOptions carries the fields of a generic WebSocket request.
type WebSocketOptions struct {
	Subprotocols   []string `json:"subprotocols,omitempty" yaml:"subprotocols,omitempty"`
	InitialMessage string   `json:"initialMessage,omitempty" yaml:"initialMessage,omitempty"`
}

// Request is a fully-resolved request description. Variable substitution
// happens upstream; the engine never sees {{placeholders}}.
//
// Kind selects the variant; exactly one of Rest, GraphQL or WebSocket is
// populated. Headers listed in DisabledHeaders stay visible in the map but
// are never transmitted.
type Request struct {
	Name            string            `json:"name,omitempty" yaml:"name,omitempty"`
	Kind            RequestKind       `json:"kind" yaml:"kind"`
	URL             string            `json:"url" yaml:"url"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	DisabledHeaders map[string]bool   `json:"disabledHeaders,omitempty" yaml:"disabledHeaders,omitempty"`
	Auth            Auth              `json:"auth,omitempty" yaml:"auth,omitempty"`

	Rest      *RestOptions      `json:"rest,omitempty" yaml:"rest,omitempty"`
	GraphQL   *GraphQLOptions   `json:"graphql,omitempty" yaml:"graphql,omitempty"`
	WebSocket *WebSocketOptions `json:"websocket,omitempty" yaml:"websocket,omitempty"`
}

// SentRequest echoes what was actually transmitted after filtering disabled
// headers and params, so diagnostics reflect reality rather than intent.
type SentRequest struct {
	Method  string            `json:"method,omitempty" yaml:"method,omitempty"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
}
