// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet

import "github.com/atotto/clipboard"

// Clipboard is where CopyAddress writes
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the host clipboard (xclip/xsel, pbcopy, or
// the Windows clipboard API).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether the host has a usable clipboard
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
