// Package logging configures the operational slog logger for waspceptor.
//
// Operational logs describe what the server is doing (startup, admin
// mutations, internal failures). They are separate from the request log,
// which records matched mock traffic for the admin surface.
//
// Components accept a *slog.Logger through an option or setter and fall back
// to Nop() when none is given:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("listening", "addr", ":3000")
package logging
