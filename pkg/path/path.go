package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir until it finds a directory containing
// targetName. isDir selects whether the target must be a directory or a file.
func FindRoot(startDir, targetName string, isDir bool) (string, error) {
	dir := startDir

	for {
		info, err := os.Stat(filepath.Join(dir, targetName))
		if err == nil && info.IsDir() == isDir {
			return dir, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return "", fmt.Errorf("could not find %s starting from %s", targetName, startDir)
}

// Resolve returns target as-is when it is absolute or exists relative to the
// working directory, otherwise it is looked up from the nearest ancestor that
// contains it.
func Resolve(target string, isDir bool) (string, error) {
	if filepath.IsAbs(target) {
		return target, nil
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() == isDir {
		return filepath.Abs(target)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	root, err := FindRoot(wd, target, isDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, target), nil
}
