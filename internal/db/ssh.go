// internal/db/ssh.go
package db

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/nhath/sqlstudio/internal/log"
)

// SSHConfig holds SSH connection details
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string

	KnownHosts      string // defaults to ~/.ssh/known_hosts
	InsecureHostKey bool
}

const defaultKnownHosts = "~/.ssh/known_hosts"

// SSHTunnel represents an active SSH connection that can dial
type SSHTunnel struct {
	client *ssh.Client
}

// expandHome resolves a leading ~/ against the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// authMethods collects key file, agent and password auth in that order
func authMethods(config *SSHConfig) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if config.KeyPath != "" {
		keyPath := expandHome(config.KeyPath)
		key, err := os.ReadFile(keyPath)
		if err != nil {
			log.Warn(log.CatDB, "ssh: cannot read private key", "path", keyPath, "error", err)
		} else {
			signer, err := ssh.ParsePrivateKey(key)
			if err != nil && config.Password != "" {
				signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(config.Password))
			}
			if err != nil {
				log.Warn(log.CatDB, "ssh: cannot parse private key", "path", keyPath, "error", err)
			} else {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			log.Warn(log.CatDB, "ssh: agent unavailable", "error", err)
		}
	}

	if config.Password != "" {
		methods = append(methods, ssh.Password(config.Password))
		// some servers only offer keyboard-interactive
		methods = append(methods, ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i := range answers {
				answers[i] = config.Password
			}
			return answers, nil
		}))
	}
	return methods
}

// hostKeyCallback verifies the server key against the known_hosts file
func hostKeyCallback(config *SSHConfig) (ssh.HostKeyCallback, error) {
	if config.InsecureHostKey {
		log.Warn(log.CatDB, "ssh: host key verification disabled", "host", config.Host)
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path := config.KnownHosts
	if path == "" {
		path = defaultKnownHosts
	}
	cb, err := knownhosts.New(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

// NewSSHTunnel establishes an SSH connection
func NewSSHTunnel(config *SSHConfig) (*SSHTunnel, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SSH host is required")
	}

	methods := authMethods(config)
	if len(methods) == 0 {
		return nil, fmt.Errorf("no valid SSH authentication methods found")
	}

	port := config.Port
	if port == 0 {
		port = 22
	}
	hostKeys, err := hostKeyCallback(config)
	if err != nil {
		return nil, err
	}
	cliConfig := &ssh.ClientConfig{
		User:            config.User,
		Auth:            methods,
		HostKeyCallback: hostKeys,
	}

	address := net.JoinHostPort(config.Host, fmt.Sprint(port))
	log.Debug(log.CatDB, "ssh: dialing", "address", address, "user", config.User, "methods", len(methods))
	client, err := ssh.Dial("tcp", address, cliConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}
	log.Info(log.CatDB, "ssh: tunnel established", "address", address)

	return &SSHTunnel{client: client}, nil
}

// DialContext connects to a remote address through the tunnel with context support
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		// close a connection that completes after we gave up
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
