// Package clone resolves the repository links offered by the clone dialog.
package clone

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eagraf/fnconsole/internal/config"
)

var ErrUnknownRepository = errors.New("unknown repository")

type Protocol string

const (
	ProtocolHTTPS Protocol = "https"
	ProtocolSSH   Protocol = "ssh"
)

func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(s)); p {
	case ProtocolHTTPS, ProtocolSSH:
		return p, nil
	case "":
		return ProtocolHTTPS, nil
	default:
		return "", fmt.Errorf("unknown protocol %q, expected https or ssh", s)
	}
}

type Dialog struct {
	repositories map[string]config.CloneRepository
}

func New(repositories map[string]config.CloneRepository) *Dialog {
	if repositories == nil {
		repositories = make(map[string]config.CloneRepository)
	}
	return &Dialog{
		repositories: repositories,
	}
}

// Kinds lists the configured repository kinds in sorted order.
func (d *Dialog) Kinds() []string {
	kinds := make([]string, 0, len(d.repositories))
	for kind := range d.repositories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func (d *Dialog) repository(kind string) (config.CloneRepository, error) {
	repo, ok := d.repositories[kind]
	if !ok {
		return config.CloneRepository{}, fmt.Errorf("%w: %s", ErrUnknownRepository, kind)
	}
	return repo, nil
}

// URL returns the clone URL of kind for the given protocol.
func (d *Dialog) URL(kind string, protocol Protocol) (string, error) {
	repo, err := d.repository(kind)
	if err != nil {
		return "", err
	}

	var url string
	switch protocol {
	case ProtocolHTTPS:
		url = repo.HTTPS
	case ProtocolSSH:
		url = repo.SSH
	default:
		return "", fmt.Errorf("unknown protocol %q", protocol)
	}
	if url == "" {
		return "", fmt.Errorf("%w: no %s url for %s", ErrUnknownRepository, protocol, kind)
	}
	return url, nil
}

// Command returns the git command that clones kind.
func (d *Dialog) Command(kind string, protocol Protocol) (string, error) {
	url, err := d.URL(kind, protocol)
	if err != nil {
		return "", err
	}
	return "git clone " + url, nil
}

// DownloadURL returns the link of the repository's ZIP archive.
func (d *Dialog) DownloadURL(kind string) (string, error) {
	repo, err := d.repository(kind)
	if err != nil {
		return "", err
	}
	if repo.DownloadURL == "" {
		return "", fmt.Errorf("%w: no archive for %s", ErrUnknownRepository, kind)
	}
	return repo.DownloadURL, nil
}
