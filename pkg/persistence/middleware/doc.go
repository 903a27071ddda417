// Package middleware wraps ports.RunStore implementations with cross-cutting
// behavior such as operation logging or write protection.
package middleware
