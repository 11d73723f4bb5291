// Package timezone pins the application to the zone named by APP_TIMEZONE (an IANA name such as
// "Asia/Kolkata"), loaded once at import.
//
// Booking windows are wall-clock values: ParseWallClock and CombineWallClock keep the clock
// reading of the input and store it as UTC, so "10:00" stays "10:00" whatever zone the caller
// sent. WallClockNow is the campus clock expressed the same way and is what elapsed bookings are
// compared against.
//
//	start, err := timezone.CombineWallClock("2025-03-10", "10:00")
//	elapsed := !end.After(timezone.WallClockNow())
package timezone
