package session

import "context"

// LoginMethod selects how a Provider authenticates the user.
type LoginMethod string

const (
	LoginMethodMnemonic   LoginMethod = "mnemonic"
	LoginMethodPrivateKey LoginMethod = "private_key"
)

// Provider is the authentication collaborator. It produces one Handle per login.
type Provider interface {
	// Init prepares the provider; it may restore a previous login
	Init(ctx context.Context) error

	// Ready reports whether Init completed
	Ready() bool

	// Connect logs the user in with method and returns the session handle
	Connect(ctx context.Context, method LoginMethod) (Handle, error)

	// Connected reports whether a user is logged in
	Connected() bool

	// Handle returns the handle of the current login or nil
	Handle() Handle

	// UserInfo returns profile information of the logged in user
	UserInfo(ctx context.Context) (*UserInfo, error)

	// IDToken returns a token identifying the logged in user
	IDToken(ctx context.Context) (string, error)

	// Logout invalidates the current handle
	Logout(ctx context.Context) error
}

// Handle is the opaque authenticated handle. Its only capability is handing out the root secret.
type Handle interface {
	// PrivateKey returns the hex encoded root secret
	PrivateKey(ctx context.Context) (string, error)
}

// UserInfo describes the logged in user.
type UserInfo struct {
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Verifier     string `json:"verifier"`
	VerifierID   string `json:"verifierId"`
	TypeOfLogin  string `json:"typeOfLogin"`
}
