//go:build !linux

package main

// disableInputEcho is a no-op where termios ioctls differ; keystrokes may echo.
func disableInputEcho(fd int) (func(), error) {
	return nil, nil
}
