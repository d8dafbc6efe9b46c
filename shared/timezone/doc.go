// Package timezone resolves the application timezone and the calendar-day helpers used when
// placing bookings on itinerary days.
//
//	now := timezone.Now()                               // current time in APP_TIMEZONE
//	day := timezone.StartOfDay(bookingStart, loc)       // the itinerary day an instant falls on
//	start := timezone.CalendarDate(trip.StartDate, loc) // a stored date anchored in loc
//
// Locations use IANA names such as "UTC" or "Europe/Lisbon". Unknown names fall back to UTC.
package timezone
