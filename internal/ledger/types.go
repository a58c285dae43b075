package ledger

// TokenPair is the credential pair issued by the token endpoint. A pair is
// immutable once issued and superseded wholesale on every refresh — fields
// are never merged across pairs.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Response is the classified outcome of a single transport attempt: the
// status code plus the raw body bytes. RequestID carries the correlation ID
// for the attempt (the server echo when present, otherwise the one the
// client generated).
type Response struct {
	Status    int
	Body      []byte
	RequestID string
}
