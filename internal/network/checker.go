package network

import (
	"net"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Iface is the slice of interface state the checker cares about.
type Iface struct {
	Name  string
	Up    bool
	Addrs []string
}

// Checker verifies the machine is on the router's network and that no VPN
// tunnel would route traffic elsewhere. It shells out to the per-OS network
// tools and falls back to interface enumeration.
type Checker struct {
	logger        *logrus.Logger
	targetNetwork string

	goos       string
	runCommand func(name string, args ...string) (string, error)
	interfaces func() ([]Iface, error)
}

// NewChecker creates a checker for the given target WiFi network name.
func NewChecker(targetNetwork string, logger *logrus.Logger) *Checker {
	return &Checker{
		logger:        logger,
		targetNetwork: targetNetwork,
		goos:          runtime.GOOS,
		runCommand:    runCommand,
		interfaces:    listInterfaces,
	}
}

// VPNActive reports whether a VPN connection is up. Errors degrade to
// "no VPN" with a debug log; the check never blocks an operation by itself.
func (c *Checker) VPNActive() bool {
	if c.goos == "darwin" {
		out, err := c.runCommand("scutil", "--nc", "list")
		if err != nil {
			c.logger.Debugf("Could not check VPN status: %v", err)
			return false
		}
		if strings.Contains(out, "(Connected)") || strings.Contains(out, "Connected") {
			c.logger.Warn("VPN connection detected - disconnect VPN and try again")
			return true
		}
		return false
	}

	ifaces, err := c.interfaces()
	if err != nil {
		c.logger.Debugf("VPN interface check failed: %v", err)
		return false
	}
	for _, iface := range ifaces {
		if !iface.Up || len(iface.Addrs) == 0 {
			continue
		}
		for _, prefix := range []string{"utun", "tun", "tap", "wg"} {
			if strings.HasPrefix(iface.Name, prefix) {
				c.logger.Warnf("VPN interface %s detected - disconnect VPN and try again", iface.Name)
				return true
			}
		}
	}
	return false
}

// OnTargetNetwork reports whether the machine is connected to the target
// WiFi network, or failing that, holds an address on a wired interface.
func (c *Checker) OnTargetNetwork() bool {
	if ssid, ok := c.currentSSID(); ok {
		if strings.Contains(ssid, c.targetNetwork) {
			c.logger.Infof("Connected to target WiFi network: %s", ssid)
			return true
		}
		c.logger.Debugf("Current WiFi network %q does not match target %q", ssid, c.targetNetwork)
	}

	// Wired connections to the router count as connected.
	if iface, addr, ok := c.wiredConnection(); ok {
		c.logger.Infof("Connected via wired ethernet on %s: %s", iface, addr)
		return true
	}

	c.logger.Warn("Not connected to target network or wired connection")
	return false
}

func (c *Checker) currentSSID() (string, bool) {
	switch c.goos {
	case "darwin":
		for _, iface := range []string{"en0", "en1"} {
			out, err := c.runCommand("networksetup", "-getairportnetwork", iface)
			if err != nil {
				continue
			}
			// Output: "Current Wi-Fi Network: <ssid>"
			if idx := strings.Index(out, ":"); idx >= 0 {
				return strings.TrimSpace(out[idx+1:]), true
			}
		}
	default:
		out, err := c.runCommand("iwgetid", "-r")
		if err == nil {
			if ssid := strings.TrimSpace(out); ssid != "" {
				return ssid, true
			}
		}
	}
	return "", false
}

func (c *Checker) wiredConnection() (string, string, bool) {
	ifaces, err := c.interfaces()
	if err != nil {
		c.logger.Debugf("Failed to list network interfaces: %v", err)
		return "", "", false
	}
	for _, iface := range ifaces {
		if !iface.Up || !isEthernetName(iface.Name) {
			continue
		}
		for _, addr := range iface.Addrs {
			ip, _, err := net.ParseCIDR(addr)
			if err != nil {
				ip = net.ParseIP(addr)
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			return iface.Name, ip.String(), true
		}
	}
	return "", "", false
}

func isEthernetName(name string) bool {
	for _, prefix := range []string{"en", "eth"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func runCommand(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}

func listInterfaces() ([]Iface, error) {
	sys, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	ifaces := make([]Iface, 0, len(sys))
	for _, s := range sys {
		info := Iface{
			Name: s.Name,
			Up:   s.Flags&net.FlagUp != 0,
		}
		addrs, err := s.Addrs()
		if err == nil {
			for _, a := range addrs {
				info.Addrs = append(info.Addrs, a.String())
			}
		}
		ifaces = append(ifaces, info)
	}
	return ifaces, nil
}
