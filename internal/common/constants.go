package common

// SessionTokenHeaderName is the HTTP header carrying the session credential
// on authenticated requests.
const SessionTokenHeaderName = "X-Session-Token"

// AppVersion is the running client version. The startup version gate
// compares it against the version persisted by the previous run.
const AppVersion = "v1.2"
