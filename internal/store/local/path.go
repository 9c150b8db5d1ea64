package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseFile is the name of the embedded database inside the data directory.
const DatabaseFile = "retail-operations.db"

// AppDirName is the per-user data directory used when no base dir is given.
const AppDirName = "retail-pos"

// PathRequester is implemented by the privileged side of a sandboxed desktop
// shell. Sandboxed callers must ask it for the database path.
type PathRequester interface {
	RequestDatabasePath(ctx context.Context) (string, error)
}

// ResolvePath returns the database file path. A non-nil requester means the
// caller is sandboxed and the path comes from the privileged process.
// Otherwise it is baseDir/retail-operations.db, with baseDir defaulting to the
// user config dir and then the working directory.
func ResolvePath(ctx context.Context, baseDir string, requester PathRequester) (string, error) {
	if requester != nil {
		p, err := requester.RequestDatabasePath(ctx)
		if err != nil {
			return "", fmt.Errorf("request database path: %w", err)
		}
		if p == "" {
			return "", fmt.Errorf("request database path: empty path returned")
		}
		return p, nil
	}

	if baseDir == "" {
		baseDir = defaultBaseDir()
	}
	return filepath.Join(baseDir, DatabaseFile), nil
}

func defaultBaseDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
