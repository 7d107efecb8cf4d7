// Package mocks provides shared test doubles for the interfaces used across
// the application.
//
// Function-field mocks (MockProvider, MockJWTService, MockUserStore) fall back
// to their default fields when no function is set. TestifyMockStudySessionStore
// is built on testify/mock for tests that assert call expectations.
package mocks
