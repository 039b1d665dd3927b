package controller

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lemonlabs-io/radioctl/internal/browser"
	"github.com/sirupsen/logrus"
)

// saveSnapshot persists the current page source to the OS temp dir for
// post-hoc inspection. Only active in debug mode; failures are logged and
// never affect the operation outcome.
func saveSnapshot(ctx context.Context, page browser.Page, logger *logrus.Logger, enabled bool, name string) {
	if !enabled {
		return
	}
	src, err := page.Source(ctx)
	if err != nil {
		logger.Debugf("Could not capture page snapshot %s: %v", name, err)
		return
	}
	path := filepath.Join(os.TempDir(), name+".html")
	if err := os.WriteFile(path, []byte(src), 0600); err != nil {
		logger.Debugf("Could not write page snapshot %s: %v", path, err)
		return
	}
	logger.Infof("DEBUG: page snapshot saved to %s", path)
}
