// Package calendar enumerates valid trading days for US equity markets.
//
// The schedule is a pure function of the date range: weekends, the regular
// US-equity holiday set (with Saturday/Sunday observance shifts), and known
// ad-hoc full-day closures are excluded. Production and tests use the same
// computation; nothing is fetched or cached.
package calendar
