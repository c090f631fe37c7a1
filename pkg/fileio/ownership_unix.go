//go:build unix

package fileio

import (
	"os"
	"syscall"
)

// ownership extracts uid and gid from file info.
func ownership(info os.FileInfo) (uid, gid int) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), int(stat.Gid)
	}
	return -1, -1
}

// chown changes the owner of path. Unknown ids (-1) are skipped.
func chown(path string, uid, gid int) error {
	if uid < 0 || gid < 0 {
		return nil
	}
	return os.Chown(path, uid, gid)
}
