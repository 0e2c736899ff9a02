// Package models defines the data model for the lmx client: the base Model and
// Repository contracts plus the locally cached catalog entities (courses and
// course files) persisted between runs.
package models
