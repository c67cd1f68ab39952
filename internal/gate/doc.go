// Package gate implements the shared-passphrase access gate that fronts
// all translation functionality.
package gate
