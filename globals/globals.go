package globals

// Context keys
type ContextKey string

const SessionKey ContextKey = "session"

// SessionHeader carries the storefront session id on API requests.
const SessionHeader = "X-Session-ID"
