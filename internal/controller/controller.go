package controller

import (
	"context"
	"time"

	"github.com/lemonlabs-io/radioctl/internal/browser"
	"github.com/lemonlabs-io/radioctl/internal/config"
	"github.com/lemonlabs-io/radioctl/internal/credentials"
	"github.com/lemonlabs-io/radioctl/internal/network"
	"github.com/lemonlabs-io/radioctl/internal/notify"
	"github.com/sirupsen/logrus"
)

// BrowserSession is the slice of browser.Session the controller needs.
type BrowserSession interface {
	Context() context.Context
	Page() browser.Page
	Close()
}

// NetworkChecker is the precondition surface (see internal/network).
type NetworkChecker interface {
	VPNActive() bool
	OnTargetNetwork() bool
}

// SessionFactory creates the browser session on first use.
type SessionFactory func() (BrowserSession, error)

type precondition int

const (
	precondOK precondition = iota
	precondNoNetwork
	precondVPN
)

// Controller composes the navigator, reader and toggler into the three
// public operations. Operations always return an enum value, never an
// error; every failure folds into UNEXPECTED_FAILURE or a precondition
// result. The browser session is created lazily and released by Close.
type Controller struct {
	cfg      *config.Config
	logger   *logrus.Logger
	network  NetworkChecker
	creds    CredentialSource
	notifier *notify.Notifier

	newSession SessionFactory
	session    BrowserSession
	sleep      func(time.Duration)
}

// New builds a controller with production collaborators.
func New(cfg *config.Config, logger *logrus.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		logger:   logger,
		network:  network.NewChecker(cfg.TargetNetwork, logger),
		creds:    credentials.NewManager(cfg.ServiceName, credentials.KeyringStore{}, logger),
		notifier: notify.NewNotifier(cfg.EnableNotifications, logger),
		newSession: func() (BrowserSession, error) {
			return browser.NewSession(cfg.Headless, cfg.DebugMode, logger)
		},
		sleep: time.Sleep,
	}
}

// Close releases the browser session. Safe to call whether or not a
// session was ever created, and more than once.
func (c *Controller) Close() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}

// CheckRadioStatus reports the current 2.4GHz radio state.
func (c *Controller) CheckRadioStatus() RadioStatus {
	c.logger.Info("Checking 2.4GHz radio status")

	switch c.checkPreconditions() {
	case precondVPN:
		return StatusVPNConnected
	case precondNoNetwork:
		return StatusNotConnected
	}

	if err := c.ensureSession(); err != nil {
		c.logger.Errorf("Failed to create browser session: %v", err)
		return StatusUnexpectedFailed
	}
	ctx := c.session.Context()

	if err := c.navigator().Run(ctx); err != nil {
		c.logger.Errorf("Login and navigation failed: %v", err)
		return StatusUnexpectedFailed
	}
	return NewStatusReader(c.session.Page(), c.logger).Read(ctx)
}

// TurnOnRadio enables the 2.4GHz radio.
func (c *Controller) TurnOnRadio() ActionResult {
	c.logger.Info("Turning on 2.4GHz radio")
	return c.toggle(true)
}

// TurnOffRadio disables the 2.4GHz radio.
func (c *Controller) TurnOffRadio() ActionResult {
	c.logger.Info("Turning off 2.4GHz radio")
	return c.toggle(false)
}

func (c *Controller) toggle(enable bool) ActionResult {
	switch c.checkPreconditions() {
	case precondVPN:
		return ResultVPNConnected
	case precondNoNetwork:
		return ResultNotConnected
	}

	if err := c.ensureSession(); err != nil {
		c.logger.Errorf("Failed to create browser session: %v", err)
		return ResultUnexpectedFailed
	}
	ctx := c.session.Context()

	if err := c.navigator().Run(ctx); err != nil {
		c.logger.Errorf("Login and navigation failed: %v", err)
		return ResultUnexpectedFailed
	}
	toggler := NewToggler(c.cfg, c.session.Page(), c.notifier, c.logger)
	toggler.sleep = c.sleep
	return toggler.Set(ctx, enable)
}

// checkPreconditions runs the network checks that must pass before any
// browser resources are allocated.
func (c *Controller) checkPreconditions() precondition {
	if c.network.VPNActive() {
		c.logger.Error("VPN connection active")
		return precondVPN
	}
	if !c.network.OnTargetNetwork() {
		c.logger.Error("Not connected to target network")
		return precondNoNetwork
	}
	return precondOK
}

func (c *Controller) ensureSession() error {
	if c.session != nil {
		return nil
	}
	session, err := c.newSession()
	if err != nil {
		return err
	}
	c.session = session
	return nil
}

func (c *Controller) navigator() *Navigator {
	nav := NewNavigator(c.cfg, c.session.Page(), c.creds, c.logger)
	nav.sleep = c.sleep
	return nav
}
