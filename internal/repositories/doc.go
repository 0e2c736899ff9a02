// Package repositories implements SQLite persistence for the local course catalog.
//
// The backend owns the scraped data; these repositories only cache course and
// file listings so commands can browse the catalog offline and record which
// files were downloaded. All repositories support soft deletes via deleted_at
// timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [CourseRepository] : course catalog cache with backend-id lookups
//   - [FileRepository] : per-course file cache with download bookkeeping
//
// The [CatalogCache] adapter syncs fresh API listings into both repositories,
// treating the backend as the source of truth.
package repositories
