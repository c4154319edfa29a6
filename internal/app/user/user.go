/*
Package user contains the data structures shared between the signaling core and
the external user-account collaborator.

The account service owns user records; this server only reads display
information to enrich presence events and notifications.
*/
package user

// Info is the display information resolved for a user identity.
// Fields use JSON tags for serialization in websocket events.
type Info struct {

	// ID is the stable account identifier issued by the account service.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// AvatarURL is the URL for the user's avatar image.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Email is the account email, included in enriched notification payloads.
	Email string `json:"email,omitempty"`
}
