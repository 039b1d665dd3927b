package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lemonlabs-io/radioctl/internal/browser"
	"github.com/lemonlabs-io/radioctl/internal/config"
	"github.com/lemonlabs-io/radioctl/internal/retry"
	"github.com/sirupsen/logrus"
)

// CredentialSource resolves the admin credential pair.
type CredentialSource interface {
	Resolve() (username, password string, err error)
}

// multiLoginSelectors are tried in priority order to confirm a session
// takeover on the concurrent-login page. Each attempt is independently
// non-fatal.
var multiLoginSelectors = []string{
	"#yes",
	"div[onclick*='login']",
	"input[value*='Yes']",
	"input[value*='yes']",
	"input[value*='OK']",
	"button[type='submit']",
	"input[type='submit']",
}

// Navigator walks a fresh browser session from the router URL to the point
// where the radio section of the advanced settings page is reachable:
// SSL interstitial, login form, optional multi-login takeover, advanced
// setup expansion, settings frame location.
type Navigator struct {
	cfg    *config.Config
	logger *logrus.Logger
	page   browser.Page
	creds  CredentialSource

	sleep func(time.Duration)
}

// NewNavigator wires a navigator to one session's page.
func NewNavigator(cfg *config.Config, page browser.Page, creds CredentialSource, logger *logrus.Logger) *Navigator {
	return &Navigator{
		cfg:    cfg,
		logger: logger,
		page:   page,
		creds:  creds,
		sleep:  time.Sleep,
	}
}

// Run executes the full login-and-navigate sequence. The login step is
// retried with exponential backoff since SSL and login races dominate the
// transient failures; everything after it is single-attempt.
func (n *Navigator) Run(ctx context.Context) error {
	err := retry.Do(func() error {
		return n.login(ctx)
	}, retry.Options{
		Attempts: n.cfg.RetryAttempts,
		Delay:    time.Duration(n.cfg.RetryDelay) * time.Second,
		Backoff:  1.5,
		RetryIf:  IsRetryable,
		Logger:   n.logger,
		Sleep:    n.sleep,
	})
	if err != nil {
		return err
	}

	if err := n.openAdvancedSettings(ctx); err != nil {
		return err
	}
	return n.locateRadioSection(ctx)
}

func (n *Navigator) login(ctx context.Context) error {
	n.logger.Info("Navigating to router login page")
	if err := n.page.Navigate(ctx, n.cfg.RouterURL); err != nil {
		return fmt.Errorf("login page did not load (%v): %w", err, ErrRouterUI)
	}

	n.bypassSSLWarning(ctx)

	username, password, err := n.creds.Resolve()
	if err != nil {
		return fmt.Errorf("failed to obtain credentials: %w", err)
	}

	timeout := time.Duration(n.cfg.Timeout) * time.Second
	if err := n.page.WaitFor(ctx, "input[name='username']", timeout); err != nil {
		return fmt.Errorf("login form did not appear (%v): %w", err, ErrRouterUI)
	}
	if err := n.page.SetValue(ctx, "input[name='username']", username); err != nil {
		return fmt.Errorf("could not fill username (%v): %w", err, ErrRouterUI)
	}
	if err := n.page.SetValue(ctx, "input[name='password']", password); err != nil {
		return fmt.Errorf("could not fill password (%v): %w", err, ErrRouterUI)
	}

	// The router's login control is an anchor with an onclick handler, not
	// a submit input.
	if err := n.page.Click(ctx, "a[onclick*='login']"); err != nil {
		return fmt.Errorf("could not activate login control (%v): %w", err, ErrRouterUI)
	}

	n.logger.Info("Login submitted, waiting for page load")
	n.sleep(3 * time.Second) // settle delay for redirects

	url, err := n.page.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("could not read post-login url (%v): %w", err, ErrRouterUI)
	}

	if strings.Contains(strings.ToLower(url), "multi_login") {
		n.resolveMultiLogin(ctx)
	} else if strings.Contains(strings.ToLower(url), "login") {
		// The router hostname itself contains "login"; only a page still
		// exposing both credential fields is an actual rejection.
		userField, _ := n.page.Exists(ctx, "input[name='username']")
		passField, _ := n.page.Exists(ctx, "input[name='password']")
		if userField && passField {
			n.logger.Warn("Still on login page after submission, login may have failed")
			return fmt.Errorf("credentials rejected: %w", ErrAuthentication)
		}
	}

	n.logger.Info("Successfully logged into admin panel")
	return nil
}

// bypassSSLWarning walks through Chrome's untrusted-certificate
// interstitial when present. Absence of the warning is not an error, and
// any failure here is survivable since login will fail loudly afterwards.
func (n *Navigator) bypassSSLWarning(ctx context.Context) {
	src, err := n.page.Source(ctx)
	if err != nil || !strings.Contains(src, "Your connection is not private") {
		n.logger.Debug("No SSL warning page detected")
		return
	}

	n.logger.Info("SSL certificate warning detected, proceeding through warning")
	if err := n.page.WaitFor(ctx, "#details-button", 5*time.Second); err != nil {
		n.logger.Warnf("SSL warning present but Advanced button missing: %v", err)
		return
	}
	if err := n.page.Click(ctx, "#details-button"); err != nil {
		n.logger.Warnf("Error handling SSL warning: %v", err)
		return
	}
	n.sleep(1 * time.Second)

	if err := n.page.Click(ctx, "#proceed-link"); err != nil {
		n.logger.Warnf("Error clicking proceed link: %v", err)
		return
	}
	n.logger.Info("Clicked proceed link, bypassing SSL warning")
	n.sleep(2 * time.Second)
}

func (n *Navigator) resolveMultiLogin(ctx context.Context) {
	n.logger.Info("Multi-login detected, handling concurrent session...")
	saveSnapshot(ctx, n.page, n.logger, n.cfg.DebugMode, "multi_login_debug")

	for _, sel := range multiLoginSelectors {
		if err := n.page.Click(ctx, sel); err != nil {
			continue
		}
		n.logger.Infof("Clicked proceed button: %s", sel)
		n.sleep(3 * time.Second)
		if url, err := n.page.CurrentURL(ctx); err == nil {
			n.logger.Infof("After multi-login handling, current URL: %s", url)
		}
		return
	}
	n.logger.Warn("Failed to handle multi-login: no candidate control matched")
}

// openAdvancedSettings navigates to the admin page, expands Advanced Setup
// and polls for the settings content marker with increasingly patient
// waits: each iframe first, then the main document, then a long final wait.
func (n *Navigator) openAdvancedSettings(ctx context.Context) error {
	n.logger.Info("Navigating to advanced settings")
	if err := n.page.Navigate(ctx, n.cfg.AdminURL); err != nil {
		return fmt.Errorf("admin page did not load (%v): %w", err, ErrRouterUI)
	}

	timeout := time.Duration(n.cfg.Timeout) * time.Second
	if err := n.page.WaitFor(ctx, "#advanced_bt", timeout); err != nil {
		saveSnapshot(ctx, n.page, n.logger, n.cfg.DebugMode, "admin_page_debug")
		return fmt.Errorf("advanced setup button not found (%v): %w", err, ErrRouterUI)
	}
	if err := n.page.Click(ctx, "#advanced_bt"); err != nil {
		saveSnapshot(ctx, n.page, n.logger, n.cfg.DebugMode, "admin_page_debug")
		return fmt.Errorf("could not expand advanced setup (%v): %w", err, ErrRouterUI)
	}
	n.logger.Info("Advanced Setup button clicked, waiting for content to load...")
	n.sleep(2 * time.Second)

	// The content usually renders inside one of the iframes.
	count, err := n.page.FrameCount(ctx)
	if err != nil {
		n.logger.Debugf("Could not enumerate iframes: %v", err)
	}
	for i := 0; i < count; i++ {
		n.logger.Debugf("Checking iframe %d", i)
		if err := n.page.EnterFrameIndex(ctx, i); err != nil {
			n.page.TopFrame()
			continue
		}
		if err := n.page.WaitFor(ctx, "#content_icons", 6*time.Second); err == nil {
			n.logger.Infof("Advanced settings content found in iframe %d", i)
			return nil
		}
		n.page.TopFrame()
	}

	n.logger.Debug("content_icons not in iframes, checking main page...")
	n.page.TopFrame()
	if err := n.page.WaitFor(ctx, "#content_icons", 3*time.Second); err == nil {
		n.logger.Info("Advanced settings content loaded in main page")
		return nil
	}

	n.logger.Debug("Trying longer wait as final fallback...")
	if err := n.page.WaitFor(ctx, "#content_icons", 10*time.Second); err == nil {
		n.logger.Info("Advanced settings content loaded (fallback)")
		return nil
	}

	saveSnapshot(ctx, n.page, n.logger, n.cfg.DebugMode, "admin_page_debug")
	return fmt.Errorf("advanced settings content did not load: %w", ErrRouterUI)
}

func (n *Navigator) locateRadioSection(ctx context.Context) error {
	found, err := n.page.Exists(ctx, "#content_icons #title_bgn")
	if err != nil {
		return fmt.Errorf("could not inspect settings container (%v): %w", err, ErrRouterUI)
	}
	if !found {
		return fmt.Errorf("2.4GHz wireless section not found: %w", ErrRouterUI)
	}
	n.logger.Debug("Found title_bgn section (2.4GHz Wireless Settings)")
	return nil
}
