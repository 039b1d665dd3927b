package controller

import "errors"

var (
	// ErrNotConnected means the machine is not on the router's network.
	ErrNotConnected = errors.New("not connected to target network")
	// ErrVPNActive means a VPN tunnel would route traffic away from the router.
	ErrVPNActive = errors.New("vpn connection active")
	// ErrAuthentication means the admin console rejected the login.
	ErrAuthentication = errors.New("router login failed")
	// ErrRouterUI means an expected admin console element was absent or
	// unreachable. These are the transient failures worth retrying.
	ErrRouterUI = errors.New("router ui element not found")
)

// IsRetryable reports whether an error during login should consume a retry.
// Authentication rejections are final; UI and navigation races are not.
func IsRetryable(err error) bool {
	return !errors.Is(err, ErrAuthentication)
}
