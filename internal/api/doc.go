// Package api implements the HTTP handlers for the EventSaga REST surface:
// auth flows, profiles, events, RSVPs, groups, and group chat. Handlers
// validate input, call the stores and auth service, and shape results into
// the uniform response envelope from the shared package.
package api
