// Package bot classifies inbound chat messages — passphrase, /set
// command, or free translation request — and assembles the reply text.
package bot
