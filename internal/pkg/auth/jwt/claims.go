package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims of a signaling connection token.
// The token is issued by the external account service after login and binds a
// websocket connection to a verified user identity, so that client-supplied
// identities in later socket events can be cross-checked.
type Payload struct {
	// StandardClaims embeds the JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer), used for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the stable identifier of the account the connection belongs to.
	UserID string `json:"user_id"`

	// UserName is the display name cached at token issue time. It may go
	// stale; it is only a convenience for logging and presence events.
	UserName string `json:"user_name"`
}
