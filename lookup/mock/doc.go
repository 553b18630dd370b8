// Package mock provides a programmable lookup.LabelSource for tests.
package mock
