package dfa

// Flags configure construction and match semantics. The zero value is not
// usable (Delimiter and StateLimit would be zero); start from DefaultFlags.
type Flags struct {
	// OneLine treats the input as a single line: Dot matches every byte
	// including the delimiter, and no delimiter-column anchor machinery is
	// built. When false (multiline), Dot excludes the delimiter and line
	// anchors resolve across delimiter transitions.
	OneLine bool

	// ReverseMatch scans the input from its last byte toward its first.
	// The pattern is matched as written against the reversed walk; on
	// accept the result's Begin is reported instead of End.
	ReverseMatch bool

	// ShortestMatch stops at the first accepting state: every accepting
	// state's outgoing row is forced to Reject during construction.
	ShortestMatch bool

	// LongestMatch keeps scanning past accepting states and reports the
	// last accepting position seen.
	LongestMatch bool

	// SuffixMatch suppresses per-state accept stashing; on accept the
	// result is stretched to the input end.
	SuffixMatch bool

	// FilteredMatch permits the compiled program to emit the quick filter
	// when the pattern's footprint allows it (involved-byte popcount < 126
	// and minimum length > 2). The filter is a heuristic fast-forward and
	// is opt-in.
	FilteredMatch bool

	// Delimiter is the line delimiter byte. Default '\n'.
	Delimiter byte

	// StateLimit caps the number of constructed DFA states. When exceeded,
	// construction returns incomplete and matching degrades to on-the-fly
	// subset construction.
	StateLimit int
}

// DefaultFlags returns the standard configuration: multiline, forward,
// leftmost-first semantics, '\n' delimiter, 4096-state budget.
func DefaultFlags() Flags {
	return Flags{
		Delimiter:  '\n',
		StateLimit: 4096,
	}
}

// Validate reports whether the flag combination is usable.
func (f *Flags) Validate() error {
	if f.StateLimit <= 0 {
		return &ConfigError{Message: "StateLimit must be > 0"}
	}
	if f.ShortestMatch && f.LongestMatch {
		return &ConfigError{Message: "ShortestMatch and LongestMatch are mutually exclusive"}
	}
	return nil
}

// WithOneLine returns a copy with OneLine set.
func (f Flags) WithOneLine(v bool) Flags {
	f.OneLine = v
	return f
}

// WithReverse returns a copy with ReverseMatch set.
func (f Flags) WithReverse(v bool) Flags {
	f.ReverseMatch = v
	return f
}

// WithShortest returns a copy with ShortestMatch set.
func (f Flags) WithShortest(v bool) Flags {
	f.ShortestMatch = v
	return f
}

// WithLongest returns a copy with LongestMatch set.
func (f Flags) WithLongest(v bool) Flags {
	f.LongestMatch = v
	return f
}

// WithSuffix returns a copy with SuffixMatch set.
func (f Flags) WithSuffix(v bool) Flags {
	f.SuffixMatch = v
	return f
}

// WithFiltered returns a copy with FilteredMatch set.
func (f Flags) WithFiltered(v bool) Flags {
	f.FilteredMatch = v
	return f
}

// WithDelimiter returns a copy with the given line delimiter.
func (f Flags) WithDelimiter(b byte) Flags {
	f.Delimiter = b
	return f
}

// WithStateLimit returns a copy with the given construction budget.
func (f Flags) WithStateLimit(n int) Flags {
	f.StateLimit = n
	return f
}

// ConfigError reports an invalid flag combination.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "dfa: " + e.Message
}
