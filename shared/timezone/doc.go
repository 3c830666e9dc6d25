// Package timezone holds the application timezone used to interpret working
// hours and calendar days. Instants are stored in UTC; wall-clock values such
// as "09:00" or "2025-10-07" are read and rendered in the zone set through
// Configure (APP_TIMEZONE).
package timezone
