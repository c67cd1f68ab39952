// Package webhook receives LINE webhook deliveries, verifies their
// signature, and processes each delivery's events concurrently.
package webhook
