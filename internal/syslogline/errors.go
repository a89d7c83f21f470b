package syslogline

import "errors"

// ErrInvalidFormat signals a malformed format string (unknown macro,
// ${MESSAGE} not last) or a message tail that doesn't dissect into a valid
// process[/pid]/message shape.
var ErrInvalidFormat = errors.New("syslogline: invalid format")

// ErrStreamMismatch signals that an input line didn't match the compiled
// format: an expected literal character, word, or timestamp wasn't present.
var ErrStreamMismatch = errors.New("syslogline: stream mismatch")
