package wire

// ConnectParams is the params object of the connect request.
type ConnectParams struct {
	MinProtocol int        `json:"minProtocol"`
	MaxProtocol int        `json:"maxProtocol"`
	Client      ClientInfo `json:"client"`
	Role        string     `json:"role"`
	Scopes      []string   `json:"scopes"`
	Device      DeviceAuth `json:"device"`
	Caps        []string   `json:"caps"`
	Commands    []string   `json:"commands"`
}

// ClientInfo describes the connecting client to the gateway.
type ClientInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Platform string `json:"platform"`
	Mode     string `json:"mode"`
}

// DeviceAuth carries the device identity proof: the public key and a
// signature over the canonical connect message (see package handshake).
type DeviceAuth struct {
	ID        string `json:"id"`
	PublicKey string `json:"publicKey"` // base64(32 bytes)
	Signature string `json:"signature"` // base64(64 bytes)
	SignedAt  int64  `json:"signedAt"`  // epoch millis
	Nonce     string `json:"nonce"`
}

// ChatSendParams is the params object of the chat.send request.
type ChatSendParams struct {
	SessionKey     string `json:"sessionKey"`
	Message        string `json:"message"`
	Deliver        bool   `json:"deliver"`
	IdempotencyKey string `json:"idempotencyKey"`
}
