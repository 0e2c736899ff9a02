// Package services exposes the lmx backend's endpoint surface as typed Go
// APIs. Each service wraps the shared [api.Client] for one domain: courses,
// AI study tools, homework, scraping, meetings, calendar, insights, and chat.
// Interpretation of results (for example a scrape status carrying a failed
// result) is left to the caller; services only shape the wire contract.
package services
