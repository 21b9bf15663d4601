// Package defaults centralizes shared constants and timeouts so that
// components stay consistent without importing each other.
package defaults
