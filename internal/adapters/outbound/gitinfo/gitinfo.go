// Package gitinfo stamps runs with the revision of the config repository.
package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// shortHash is the length of the abbreviated commit hash.
const shortHash = 12

// Reader implements domain.RevisionReader using go-git.
type Reader struct{}

func New() *Reader {
	return &Reader{}
}

// Revision returns the abbreviated HEAD commit of the repository holding
// configPath, with a "+dirty" suffix when the file has uncommitted changes.
// It returns "" without error when configPath is not under version control.
func (g *Reader) Revision(configPath string) (string, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", err
	}
	abs = resolve(abs)

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	rev := head.Hash().String()[:shortHash]

	dirty, err := modified(repo, abs)
	if err != nil {
		return "", err
	}
	if dirty {
		rev += "+dirty"
	}
	return rev, nil
}

func modified(repo *git.Repository, abs string) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("opening worktree: %w", err)
	}
	rel, err := filepath.Rel(resolve(wt.Filesystem.Root()), abs)
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	// Status only lists changed paths.
	fs, ok := status[filepath.ToSlash(rel)]
	if !ok {
		return false, nil
	}
	return fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified, nil
}

func resolve(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}
