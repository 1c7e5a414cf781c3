// Package state provides a lightweight in-memory session store for Telegram bots.
// It is intentionally domain-agnostic: the session value type is a type parameter.
package state
