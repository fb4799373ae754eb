// Package domain contains the user entity, the input model decoded from
// requests, and the sanitization and validation rules applied before any
// record reaches storage. It has no knowledge of HTTP or SQL.
package domain
