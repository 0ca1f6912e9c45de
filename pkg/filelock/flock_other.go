//go:build !unix

package filelock

import "os"

// Non-unix builds only get the in-process serialization of the caller.
func lockFile(*os.File) error {
	return nil
}

func unlockFile(*os.File) error {
	return nil
}
