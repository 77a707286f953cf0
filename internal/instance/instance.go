// Package instance keeps a single tray process running per user session.
package instance

import "errors"

// ErrAlreadyRunning is returned by Acquire when another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Name is the lock name used by the tray.
const Name = "NightscoutTray_SingleInstance"
