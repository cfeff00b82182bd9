// Package tui implements the interactive terminal remote built on Bubble
// Tea. It has three screens: device discovery (mDNS scan with a selectable
// result list), PIN pairing (the device shows a PIN, the user types it in),
// and the remote itself (a key grid driven by the keyboard, with an inline
// text entry mode).
//
// The app starts on whichever screen matches the registry state: the remote
// when a paired target exists, pairing when a target is selected but has no
// token, and discovery otherwise. A token rejection reported by the control
// engine drops the app back to the pairing screen.
package tui
