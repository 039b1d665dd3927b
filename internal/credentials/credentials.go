package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// ErrNotFound means the store holds no complete credential pair. A pair
// with only one half present is treated as absent.
var ErrNotFound = errors.New("credentials not found")

// Store abstracts the system keychain.
type Store interface {
	Get(service string) (username, password string, err error)
	Set(service, username, password string) error
}

// KeyringStore stores the pair as two secrets under one service name.
type KeyringStore struct{}

func (KeyringStore) Get(service string) (string, string, error) {
	username, err := keyring.Get(service, "username")
	if err != nil {
		return "", "", ErrNotFound
	}
	password, err := keyring.Get(service, "password")
	if err != nil {
		return "", "", ErrNotFound
	}
	if username == "" || password == "" {
		return "", "", ErrNotFound
	}
	return username, password, nil
}

func (KeyringStore) Set(service, username, password string) error {
	if err := keyring.Set(service, "username", username); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}
	if err := keyring.Set(service, "password", password); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}

// Manager resolves admin credentials: keychain first, interactive prompt as
// fallback, with an optional save-back. Credential values are never logged.
type Manager struct {
	logger  *logrus.Logger
	service string
	store   Store

	readLine     func(prompt string) (string, error)
	readPassword func(prompt string) (string, error)
}

// NewManager creates a manager for the given keychain service name.
func NewManager(service string, store Store, logger *logrus.Logger) *Manager {
	return &Manager{
		logger:       logger,
		service:      service,
		store:        store,
		readLine:     readLine,
		readPassword: readPassword,
	}
}

// Resolve returns the credential pair, prompting the user when the store is
// empty.
func (m *Manager) Resolve() (string, string, error) {
	username, password, err := m.store.Get(m.service)
	if err == nil {
		return username, password, nil
	}
	if !errors.Is(err, ErrNotFound) {
		m.logger.Errorf("Failed to read credential store: %v", err)
	} else {
		m.logger.Info("No stored credentials found")
	}
	return m.prompt()
}

func (m *Manager) prompt() (string, string, error) {
	fmt.Println("\nRouter admin credentials not found.")
	fmt.Println("They can be stored in the system keychain for next time.")

	username, err := m.readLine("Enter admin username: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}
	password, err := m.readPassword("Enter admin password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	answer, err := m.readLine("Store credentials securely in keychain? (y/N): ")
	if err == nil && strings.HasPrefix(strings.ToLower(answer), "y") {
		if err := m.store.Set(m.service, username, password); err != nil {
			m.logger.Errorf("Failed to store credentials: %v", err)
		} else {
			m.logger.Info("Credentials stored successfully")
		}
	}

	return username, password, nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
