// Package service contains the user use cases. It sanitizes and validates
// request input, runs the advisory duplicate-email pre-check and delegates
// persistence to a store.UserStore, translating store outcomes into the
// sentinel errors the API layer maps to HTTP statuses.
//
// The service depends only on domain types and store interfaces, never on a
// concrete database implementation.
package service
