// Package auth runs the login and logout flows that start and end a session.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/storefront/internal/remote"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/notify"
	"github.com/angelmondragon/storefront/pkg/requestid"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	MsgUsernameRequired = "Username is required"
	MsgPasswordRequired = "Password is required"
	MsgLoggedIn         = "Logged in successfully"
	MsgLoggedOut        = "Logged Out Successfully"
)

// LoginClient is the remote login call.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (*types.LoginResponse, error)
}

// Lifecycle is the write side of the session.
type Lifecycle interface {
	Init(ctx context.Context, id session.Identity) error
	Teardown(ctx context.Context) error
}

type Service struct {
	remote   LoginClient
	session  Lifecycle
	notifier notify.Notifier
	logg     *logger.Logger
}

func NewService(remote LoginClient, sess Lifecycle, notifier notify.Notifier, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logg)
	}
	return &Service{remote: remote, session: sess, notifier: notifier, logg: logg}
}

// Login checks credentials against the API and, on success, starts the session.
func (s *Service) Login(ctx context.Context, username, password string) (session.Identity, error) {
	ctx = requestid.New(ctx, s.logg)

	if err := validateCredentials(username, password); err != nil {
		s.notifier.Notify(ctx, notify.FromError(err))
		return session.Identity{}, err
	}

	resp, err := s.remote.Login(ctx, username, password)
	if err != nil {
		if remote.Status(err) != http.StatusBadRequest {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, pkgerrors.MsgBackendUnavailable)
		}
		s.notifier.Notify(ctx, notify.FromError(err))
		return session.Identity{}, err
	}

	identity := session.Identity{Token: resp.Token, Username: resp.Username, Balance: resp.Balance}
	if err := s.session.Init(ctx, identity); err != nil {
		s.logg.Error(ctx, "persist session", err)
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
		s.notifier.Notify(ctx, notify.FromError(err))
		return session.Identity{}, err
	}

	s.logg.Info(s.logg.WithUsername(ctx, identity.Username), "logged in")
	notify.Success(ctx, s.notifier, MsgLoggedIn)
	return identity, nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context) error {
	ctx = requestid.New(ctx, s.logg)
	if err := s.session.Teardown(ctx); err != nil {
		s.logg.Error(ctx, "clear session", err)
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
		s.notifier.Notify(ctx, notify.FromError(err))
		return err
	}
	notify.Success(ctx, s.notifier, MsgLoggedOut)
	return nil
}

var credentialMessages = map[string]string{
	"username": MsgUsernameRequired,
	"password": MsgPasswordRequired,
}

// validateCredentials checks the login form tags and reports the first
// missing field with its form message.
func validateCredentials(username, password string) error {
	err := types.Validate(&types.LoginRequest{Username: username, Password: password})
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	if msg, ok := credentialMessages[verr.Fields[0]]; ok {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, verr.Error())
}
