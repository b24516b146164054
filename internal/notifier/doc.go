// Package notifier delivers chat notifications on a best-effort basis.
//
// Delivery failures are logged and swallowed: callers have no fallback
// channel, so Notify never returns an error. A token bucket keeps bursts
// (for example a status change followed by an error report) under the
// Telegram per-chat limits.
package notifier
