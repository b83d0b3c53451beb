//go:build windows

package app

import (
	"os"

	"golang.org/x/sys/windows"
)

func contSignals() []os.Signal {
	return nil
}

// flushInput drops console input queued while another program had the
// terminal.
func flushInput() error {
	handle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return err
	}
	return windows.FlushConsoleInputBuffer(handle)
}
