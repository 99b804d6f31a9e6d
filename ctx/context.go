// Package ctx holds the key type hrsuite packages use for values in a context.Context.
package ctx

// CTXKey is the type of all keys hrsuite puts into a context with WithValue,
// so they can not collide with keys of other packages.
type CTXKey string
