// Package types defines the phone book domain: validated contact fields,
// records, the address book collection, the Store interface, configuration
// and the standard error values shared by storage and command layers.
package types
