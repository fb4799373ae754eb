// Package api handles incoming HTTP requests, request parsing, and response
// formatting. It acts as an adapter between HTTP clients and the user
// service, translating service errors into status codes and the uniform
// {success, message, data|error} envelope.
package api
