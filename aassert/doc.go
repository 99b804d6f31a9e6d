// Package aassert has assertions for hrsuite tests that testify/assert does not offer.
// The assertions follow the conventions of testify: they report to t and return whether they passed.
package aassert
