// Package types defines the inventory Item, the persisted Document shape,
// the Store interface, configuration, and the sentinel errors shared by the
// catalog, the stores, and the front ends.
package types
