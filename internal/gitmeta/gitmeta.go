// Package gitmeta finds the commit that last touched a registry document,
// for the source lines of the generated header.
package gitmeta

import (
	"io"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/teranos/webglgen/bindgen"
	"github.com/teranos/webglgen/errors"
)

// shortHashLen is long enough to stay unique in any realistic registry repo.
const shortHashLen = 12

// Lookup returns source info for the last commit touching path. ok is
// false when path is not inside a git repository or was never committed.
func Lookup(path string) (info bindgen.SourceInfo, ok bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return info, false, errors.Wrapf(err, "failed to resolve %s", path)
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return info, false, nil
	}
	if err != nil {
		return info, false, errors.Wrap(err, "failed to open git repository")
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no files to stamp.
		return info, false, nil
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return info, false, errors.Wrapf(err, "%s is outside the worktree", path)
	}
	rel = filepath.ToSlash(rel)

	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		// Empty repository: no HEAD yet.
		return info, false, nil
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return info, false, nil
	}
	if err != nil {
		return info, false, errors.Wrapf(err, "failed to read history of %s", rel)
	}

	hash := commit.Hash.String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return bindgen.SourceInfo{
		Version:      hash,
		LastModified: commit.Committer.When.UTC(),
	}, true, nil
}
