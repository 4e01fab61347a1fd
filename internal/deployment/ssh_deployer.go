package deployment

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wr_history/internal/catalog"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// SSHDeployer pushes the generated catalog and the history exports to a
// static-file host via SSH/SCP.
type SSHDeployer struct {
	keyPath   string
	deployURL string
	client    *ssh.Client
	connected bool
}

// NewSSHDeployer creates a deployer for a target in user@host:path form.
func NewSSHDeployer(deployURL, keyPath string) *SSHDeployer {
	return &SSHDeployer{
		keyPath:   keyPath,
		deployURL: deployURL,
	}
}

// parseDeployURL parses a deploy URL in format: user@host:path
func (d *SSHDeployer) parseDeployURL() (user, host, remotePath string, err error) {
	if d.deployURL == "" {
		return "", "", "", fmt.Errorf("deploy URL is empty")
	}

	parts := strings.SplitN(d.deployURL, "@", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}
	user = parts[0]

	hostParts := strings.SplitN(parts[1], ":", 2)
	if len(hostParts) != 2 {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}
	host = hostParts[0]
	remotePath = hostParts[1]

	return user, host, remotePath, nil
}

// Connect establishes the SSH connection
func (d *SSHDeployer) Connect() error {
	if d.connected {
		return nil
	}

	user, host, _, err := d.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	keyData, err := os.ReadFile(d.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", d.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // In production, use proper host key verification
		Timeout:         30 * time.Second,
	}

	d.client, err = ssh.Dial("tcp", net.JoinHostPort(host, "22"), config)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", host, err)
	}

	d.connected = true
	log.Info().
		Str("host", host).
		Str("user", user).
		Msg("Connected to deploy target")

	return nil
}

// Disconnect closes the SSH connection
func (d *SSHDeployer) Disconnect() error {
	if d.client != nil {
		err := d.client.Close()
		d.connected = false
		d.client = nil
		return err
	}
	return nil
}

// DeployDataDir uploads the catalog and every history export found in
// dataDir. Stray files are skipped so the remote mirror stays shaped like
// a catalog-consuming viewer expects.
func (d *SSHDeployer) DeployDataDir(dataDir string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read data directory: %w", err)
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name != catalog.FileName && !strings.HasSuffix(name, ".csv") {
			continue
		}
		if err := d.DeployFile(filepath.Join(dataDir, name), name); err != nil {
			return fmt.Errorf("failed to deploy %s: %w", name, err)
		}
		uploaded++
	}

	log.Info().
		Int("files", uploaded).
		Str("target", d.deployURL).
		Msg("Deployed data directory")

	return nil
}

// DeployFile uploads a single file via SCP
func (d *SSHDeployer) DeployFile(localPath, filename string) error {
	if !d.connected {
		if err := d.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
	}

	_, _, remotePath, err := d.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	session, err := d.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	remoteFilePath := filepath.Join(remotePath, filename)
	scpCmd := fmt.Sprintf("scp -t %s", remoteFilePath)

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start(scpCmd); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	header := fmt.Sprintf("C0644 %d %s\n", fileInfo.Size(), filename)
	if _, err := stdin.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}

	if _, err := io.Copy(stdin, localFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	if _, err := stdin.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Debug().
		Str("local_path", localPath).
		Str("remote_path", remoteFilePath).
		Int64("size", fileInfo.Size()).
		Msg("Deployed file via SCP")

	return nil
}
