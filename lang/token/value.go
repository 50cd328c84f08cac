package token

// Value carries everything the parser needs about one scanned token
// beyond its kind: the exact source spelling, its position, and (for
// STRING/QIDENT) the already-unescaped text.
type Value struct {
	Raw    string
	Pos    Pos
	String string // unescaped text, set only for STRING and QIDENT
}
