package source

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSSHURL indicates the URL is not a valid SSH URL
	ErrInvalidSSHURL = errors.New("invalid SSH URL format")

	// git@github.com:org/repo.git, git@gitlab.com:group/sub/repo.git
	sshScpPattern = regexp.MustCompile(`^git@([^:]+):(.+?)(?:\.git)?$`)

	// ssh://git@github.com/org/repo.git
	sshURLPattern = regexp.MustCompile(`^ssh://git@([^/]+)/(.+?)(?:\.git)?$`)
)

// ParseSSHURL parses an SSH git URL and returns the host, path, and repository name.
// Supports both SCP-style (git@host:path) and SSH URL style (ssh://git@host/path).
//
// Examples:
//   - git@github.com:org/repo.git -> host: github.com, path: org/repo, repo: repo
//   - ssh://git@github.com/org/repo.git -> host: github.com, path: org/repo, repo: repo
func ParseSSHURL(url string) (host, path, repo string, err error) {
	url = strings.TrimSpace(url)

	for _, pattern := range []*regexp.Regexp{sshScpPattern, sshURLPattern} {
		if matches := pattern.FindStringSubmatch(url); matches != nil {
			host, path = matches[1], matches[2]
			return host, path, path[strings.LastIndex(path, "/")+1:], nil
		}
	}

	return "", "", "", ErrInvalidSSHURL
}

// RepoID converts an SSH URL to a filesystem-safe directory name, for
// example git@github.com:org/repo.git -> github.com_org_repo.
func RepoID(url string) (string, error) {
	host, path, _, err := ParseSSHURL(url)
	if err != nil {
		return "", err
	}

	r := strings.NewReplacer("/", "_", ":", "_", "@", "_")
	return r.Replace(host + "/" + path), nil
}
