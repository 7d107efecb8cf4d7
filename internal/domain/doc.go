// Package domain contains the core entities of MindFlow: users and the study
// sessions they save. Entities validate themselves; persistence and transport
// concerns live in the store and api packages.
package domain
