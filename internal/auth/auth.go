package auth

import (
	"context"
	"errors"
	"fmt"
)

// Decision is the outcome of a device authentication attempt.
type Decision int

const (
	Success Decision = iota
	Failure
	Unavailable
)

func (d Decision) String() string {
	switch d {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

var (
	// ErrDenied reports that the user failed or declined authentication.
	ErrDenied = errors.New("authentication denied")
)

// Authenticator is the device authentication boundary (biometrics,
// device passcode). Implementations are platform glue; this package
// only defines the contract and the fallback policy around it.
type Authenticator interface {
	// Authenticate runs the primary mechanism, showing reason to the user.
	Authenticate(ctx context.Context, reason string) (Decision, error)

	// AuthenticateWithDeviceSecret runs the passcode-equivalent
	// fallback, used when the primary mechanism is unavailable.
	AuthenticateWithDeviceSecret(ctx context.Context, reason string) (bool, error)
}

// Gate wraps an Authenticator with the unlock policy: primary first,
// device-secret fallback only when the primary is unavailable. A
// Failure decision never falls through to the fallback.
type Gate struct {
	Auth Authenticator
}

func (g Gate) Confirm(ctx context.Context, reason string) error {
	decision, err := g.Auth.Authenticate(ctx, reason)
	if err != nil {
		return err
	}

	switch decision {
	case Success:
		return nil
	case Failure:
		return ErrDenied
	case Unavailable:
		ok, err := g.Auth.AuthenticateWithDeviceSecret(ctx, reason)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDenied
		}
		return nil
	default:
		return fmt.Errorf("unknown authentication decision %d", decision)
	}
}

// Allow returns an Authenticator that always succeeds. The CLI runs
// inside a logged-in OS session, which is its authentication.
func Allow() Authenticator {
	return Static(Success, true)
}

// Static returns an Authenticator with canned answers.
func Static(primary Decision, deviceSecret bool) Authenticator {
	return staticAuth{primary: primary, deviceSecret: deviceSecret}
}

type staticAuth struct {
	primary      Decision
	deviceSecret bool
}

func (a staticAuth) Authenticate(ctx context.Context, reason string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Failure, err
	}
	return a.primary, nil
}

func (a staticAuth) AuthenticateWithDeviceSecret(ctx context.Context, reason string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return a.deviceSecret, nil
}
