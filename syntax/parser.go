package syntax

// The parser is a recursive descent over bytes, one level per precedence
// tier:
//
//	alt    := concat (('|' | '&' | '~') concat)*
//	concat := repeat*
//	repeat := atom ('*' | '+' | '?' | '{' bounds '}')*
//	atom   := '(' alt ')' | '[' class ']' | '.' | '^' | '$' | escape | byte
//
// '|', '&' and '~' share the lowest precedence tier and associate left.
// '&' is language intersection and '~' symmetric difference; both lower to
// operator pseudo-position pairs (see lowerOperator) rather than to tree
// combinators, so the subset engine resolves them during closure.
//
// Counted repetition expands structurally: e{2,4} becomes e e e? e? with
// fresh position ids for every copy, keeping the Glushkov construction's
// one-id-per-position invariant. A position budget rejects pathological
// bounds before the arena blows up.

const (
	// maxPositions bounds the arena size after repetition expansion.
	maxPositions = 1 << 16

	// maxRepeatBound bounds a single {n,m} count.
	maxRepeatBound = 1000
)

type parser struct {
	src       string
	pos       int
	t         *Tree
	nextGroup int
}

// Parse compiles a pattern into an expression tree. The returned tree is
// already EOP-augmented; run Analyze on it to obtain the DFA capability
// surface.
func Parse(pattern string) (*Tree, error) {
	p := &parser{src: pattern, t: &Tree{Expr: None, Root: None, EOP: None}}

	var expr int
	if len(pattern) == 0 {
		expr = p.t.add(Node{Kind: KindEmpty, Left: None, Right: None})
	} else {
		var err error
		expr, err = p.alt()
		if err != nil {
			return nil, err
		}
		if p.pos != len(p.src) {
			return nil, &ParseError{Kind: UnexpectedToken, Pos: p.pos,
				Message: "unmatched )"}
		}
	}

	eop := p.t.add(Node{Kind: KindEOP, Left: None, Right: None})
	p.t.Expr = expr
	p.t.EOP = eop
	p.t.Root = p.t.newInterior(KindConcat, expr, eop)
	return p.t, nil
}

// MustParse is Parse for patterns known to be valid; it panics on error.
func MustParse(pattern string) *Tree {
	t, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) alt() (int, error) {
	left, err := p.concat()
	if err != nil {
		return None, err
	}
	for p.more() {
		switch p.peek() {
		case '|':
			p.pos++
			right, err := p.concat()
			if err != nil {
				return None, err
			}
			left = p.t.newInterior(KindUnion, left, right)
		case '&':
			p.pos++
			right, err := p.concat()
			if err != nil {
				return None, err
			}
			left = p.lowerOperator(left, right, OpIntersection)
		case '~':
			p.pos++
			right, err := p.concat()
			if err != nil {
				return None, err
			}
			left = p.lowerOperator(left, right, OpXOR)
		default:
			return left, nil
		}
	}
	return left, nil
}

// lowerOperator rewrites A op B into (A·opL) | (B·opR) where opL and opR
// are a fresh operator pair. The pair's follow set becomes the continuation
// of the whole expression, so the subset engine injects it when the pair's
// condition holds: both partners present for intersection, exactly one for
// XOR.
func (p *parser) lowerOperator(left, right int, op OpKind) int {
	group := p.nextGroup
	p.nextGroup++
	opL := p.t.add(Node{Kind: KindOperator, Op: op, Group: group, Left: None, Right: None})
	opR := p.t.add(Node{Kind: KindOperator, Op: op, Group: group, Left: None, Right: None})
	p.t.Node(opL).Pair = opR
	p.t.Node(opR).Pair = opL
	lc := p.t.newInterior(KindConcat, left, opL)
	rc := p.t.newInterior(KindConcat, right, opR)
	return p.t.newInterior(KindUnion, lc, rc)
}

func (p *parser) concat() (int, error) {
	var items []int
	for p.more() {
		c := p.peek()
		if c == '|' || c == '&' || c == '~' || c == ')' {
			break
		}
		item, err := p.repeat()
		if err != nil {
			return None, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return p.t.add(Node{Kind: KindEmpty, Left: None, Right: None}), nil
	}
	left := items[0]
	for _, r := range items[1:] {
		left = p.t.newInterior(KindConcat, left, r)
	}
	return left, nil
}

func (p *parser) repeat() (int, error) {
	e, err := p.atom()
	if err != nil {
		return None, err
	}
	for p.more() {
		switch p.peek() {
		case '*':
			p.pos++
			e = p.t.newInterior(KindStar, e, None)
		case '+':
			p.pos++
			e = p.t.newInterior(KindPlus, e, None)
		case '?':
			p.pos++
			e = p.t.newInterior(KindQuest, e, None)
		case '{':
			lo, hi, unbounded, ok, err := p.bounds()
			if err != nil {
				return None, err
			}
			if !ok {
				// '{' not followed by a count is an ordinary byte.
				p.pos++
				lit := p.t.add(Node{Kind: KindLiteral, Lit: '{', Left: None, Right: None})
				e = p.t.newInterior(KindConcat, e, lit)
				continue
			}
			e, err = p.expandRepeat(e, lo, hi, unbounded)
			if err != nil {
				return None, err
			}
		default:
			return e, nil
		}
	}
	return e, nil
}

// bounds parses {n}, {n,} or {n,m} starting at '{'. ok is false when the
// brace does not open a count (so the caller treats it as a literal).
func (p *parser) bounds() (lo, hi int, unbounded, ok bool, err error) {
	start := p.pos
	q := p.pos + 1
	readInt := func() (int, bool) {
		v, digits := 0, 0
		for q < len(p.src) && p.src[q] >= '0' && p.src[q] <= '9' {
			v = v*10 + int(p.src[q]-'0')
			if v > maxRepeatBound {
				v = maxRepeatBound + 1
			}
			q++
			digits++
		}
		return v, digits > 0
	}
	lo, haveLo := readInt()
	if !haveLo {
		return 0, 0, false, false, nil
	}
	hi = lo
	if q < len(p.src) && p.src[q] == ',' {
		q++
		var haveHi bool
		hi, haveHi = readInt()
		if !haveHi {
			unbounded = true
		}
	}
	if q >= len(p.src) || p.src[q] != '}' {
		return 0, 0, false, false, nil
	}
	q++
	if lo > maxRepeatBound || hi > maxRepeatBound {
		return 0, 0, false, false, &ParseError{Kind: BadRepeat, Pos: start,
			Message: "repetition count too large"}
	}
	if !unbounded && hi < lo {
		return 0, 0, false, false, &ParseError{Kind: BadRepeat, Pos: start,
			Message: "repetition bounds out of order"}
	}
	p.pos = q
	return lo, hi, unbounded, true, nil
}

// expandRepeat builds the structural expansion of e{lo,hi}. The first
// mandatory copy reuses e itself; every further copy duplicates the subtree
// with fresh position ids (and fresh operator pairs/groups).
func (p *parser) expandRepeat(e, lo, hi int, unbounded bool) (int, error) {
	var parts []int
	used := false
	take := func() int {
		if !used {
			used = true
			return e
		}
		return p.copySubtree(e)
	}
	budget := func() error {
		if p.t.Len() > maxPositions {
			return &ParseError{Kind: TooLarge, Pos: p.pos,
				Message: "expanded expression exceeds position budget"}
		}
		return nil
	}
	for i := 0; i < lo; i++ {
		parts = append(parts, take())
		if err := budget(); err != nil {
			return None, err
		}
	}
	if unbounded {
		parts = append(parts, p.t.newInterior(KindStar, take(), None))
	} else {
		for i := lo; i < hi; i++ {
			parts = append(parts, p.t.newInterior(KindQuest, take(), None))
			if err := budget(); err != nil {
				return None, err
			}
		}
	}
	if err := budget(); err != nil {
		return None, err
	}
	if len(parts) == 0 {
		return p.t.add(Node{Kind: KindEmpty, Left: None, Right: None}), nil
	}
	left := parts[0]
	for _, r := range parts[1:] {
		left = p.t.newInterior(KindConcat, left, r)
	}
	return left, nil
}

// copySubtree deep-copies the subtree at id. Operator pairs inside the copy
// are relinked to their copied partners and XOR groups are renumbered, so a
// copied A~B stays independent of the original.
func (p *parser) copySubtree(id int) int {
	idMap := make(map[int]int)
	groupMap := make(map[int]int)
	nid := p.copyRec(id, idMap, groupMap)
	for oldID, newID := range idMap {
		if p.t.nodes[oldID].Kind == KindOperator {
			p.t.nodes[newID].Pair = idMap[p.t.nodes[oldID].Pair]
		}
	}
	return nid
}

func (p *parser) copyRec(id int, idMap, groupMap map[int]int) int {
	src := p.t.nodes[id] // value copy; the arena may grow below
	n := src
	n.Follow = nil
	switch src.Kind {
	case KindConcat, KindUnion:
		n.Left = p.copyRec(src.Left, idMap, groupMap)
		n.Right = p.copyRec(src.Right, idMap, groupMap)
	case KindStar, KindPlus, KindQuest:
		n.Left = p.copyRec(src.Left, idMap, groupMap)
	case KindOperator:
		g, ok := groupMap[src.Group]
		if !ok {
			g = p.nextGroup
			p.nextGroup++
			groupMap[src.Group] = g
		}
		n.Group = g
	}
	nid := p.t.add(n)
	idMap[id] = nid
	return nid
}

func (p *parser) atom() (int, error) {
	c := p.peek()
	switch c {
	case '(':
		p.pos++
		e, err := p.alt()
		if err != nil {
			return None, err
		}
		if !p.more() || p.peek() != ')' {
			return None, &ParseError{Kind: UnexpectedEOF, Pos: p.pos,
				Message: "missing )"}
		}
		p.pos++
		return e, nil
	case '[':
		return p.class()
	case '.':
		p.pos++
		return p.t.add(Node{Kind: KindDot, Left: None, Right: None}), nil
	case '^':
		p.pos++
		return p.t.add(Node{Kind: KindAnchor, Anchor: BegLine, Left: None, Right: None}), nil
	case '$':
		p.pos++
		return p.t.add(Node{Kind: KindAnchor, Anchor: EndLine, Left: None, Right: None}), nil
	case '\\':
		return p.escape()
	case '*', '+', '?':
		return None, &ParseError{Kind: UnexpectedToken, Pos: p.pos,
			Message: "repetition operator with no operand"}
	default:
		p.pos++
		return p.t.add(Node{Kind: KindLiteral, Lit: c, Left: None, Right: None}), nil
	}
}

func (p *parser) escape() (int, error) {
	start := p.pos
	p.pos++ // backslash
	if !p.more() {
		return None, &ParseError{Kind: UnexpectedEOF, Pos: start,
			Message: "trailing backslash"}
	}
	c := p.peek()
	p.pos++
	switch c {
	case 'n':
		return p.t.add(Node{Kind: KindLiteral, Lit: '\n', Left: None, Right: None}), nil
	case 'r':
		return p.t.add(Node{Kind: KindLiteral, Lit: '\r', Left: None, Right: None}), nil
	case 't':
		return p.t.add(Node{Kind: KindLiteral, Lit: '\t', Left: None, Right: None}), nil
	case 'f':
		return p.t.add(Node{Kind: KindLiteral, Lit: '\f', Left: None, Right: None}), nil
	case 'v':
		return p.t.add(Node{Kind: KindLiteral, Lit: '\v', Left: None, Right: None}), nil
	case '0':
		return p.t.add(Node{Kind: KindLiteral, Lit: 0, Left: None, Right: None}), nil
	case 'x':
		hi, ok1 := hexVal(p.byteAt(p.pos))
		lo, ok2 := hexVal(p.byteAt(p.pos + 1))
		if !ok1 || !ok2 {
			return None, &ParseError{Kind: BadEscape, Pos: start,
				Message: "malformed \\x escape"}
		}
		p.pos += 2
		return p.t.add(Node{Kind: KindLiteral, Lit: hi<<4 | lo, Left: None, Right: None}), nil
	case 'd', 'D', 'w', 'W', 's', 'S':
		mask := perlClass(c)
		return p.t.add(Node{Kind: KindCharClass, Class: mask, Left: None, Right: None}), nil
	default:
		if isWordByte(c) {
			return None, &ParseError{Kind: BadEscape, Pos: start,
				Message: "unknown escape"}
		}
		return p.t.add(Node{Kind: KindLiteral, Lit: c, Left: None, Right: None}), nil
	}
}

func (p *parser) byteAt(i int) byte {
	if i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *parser) class() (int, error) {
	start := p.pos
	p.pos++ // [
	negate := false
	if p.more() && p.peek() == '^' {
		negate = true
		p.pos++
	}
	var mask ClassMask
	first := true
	for {
		if !p.more() {
			return None, &ParseError{Kind: BadClass, Pos: start,
				Message: "missing ]"}
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false
		lo, loMask, isMask, err := p.classAtom()
		if err != nil {
			return None, err
		}
		if isMask {
			mask.Union(&loMask)
			continue
		}
		if p.more() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++ // -
			hi, _, hiMask, err := p.classAtom()
			if err != nil {
				return None, err
			}
			if hiMask {
				return None, &ParseError{Kind: BadClass, Pos: start,
					Message: "class shorthand as range endpoint"}
			}
			if hi < lo {
				return None, &ParseError{Kind: BadClass, Pos: start,
					Message: "range endpoints out of order"}
			}
			mask.SetRange(lo, hi)
			continue
		}
		mask.Set(lo)
	}
	if negate {
		mask.Invert()
	}
	return p.t.add(Node{Kind: KindCharClass, Class: mask, Left: None, Right: None}), nil
}

// classAtom reads one class member: a byte, an escape, or a \d-style
// shorthand (returned as a mask).
func (p *parser) classAtom() (byte, ClassMask, bool, error) {
	c := p.peek()
	if c != '\\' {
		p.pos++
		return c, ClassMask{}, false, nil
	}
	start := p.pos
	p.pos++
	if !p.more() {
		return 0, ClassMask{}, false, &ParseError{Kind: UnexpectedEOF, Pos: start,
			Message: "trailing backslash in class"}
	}
	e := p.peek()
	p.pos++
	switch e {
	case 'n':
		return '\n', ClassMask{}, false, nil
	case 'r':
		return '\r', ClassMask{}, false, nil
	case 't':
		return '\t', ClassMask{}, false, nil
	case 'f':
		return '\f', ClassMask{}, false, nil
	case 'v':
		return '\v', ClassMask{}, false, nil
	case '0':
		return 0, ClassMask{}, false, nil
	case 'x':
		hi, ok1 := hexVal(p.byteAt(p.pos))
		lo, ok2 := hexVal(p.byteAt(p.pos + 1))
		if !ok1 || !ok2 {
			return 0, ClassMask{}, false, &ParseError{Kind: BadEscape, Pos: start,
				Message: "malformed \\x escape in class"}
		}
		p.pos += 2
		return hi<<4 | lo, ClassMask{}, false, nil
	case 'd', 'D', 'w', 'W', 's', 'S':
		return 0, perlClass(e), true, nil
	default:
		if isWordByte(e) {
			return 0, ClassMask{}, false, &ParseError{Kind: BadEscape, Pos: start,
				Message: "unknown escape in class"}
		}
		return e, ClassMask{}, false, nil
	}
}

// perlClass builds the mask for \d \D \w \W \s \S over the byte alphabet.
func perlClass(c byte) ClassMask {
	var m ClassMask
	switch c | 0x20 {
	case 'd':
		m.SetRange('0', '9')
	case 'w':
		m.SetRange('0', '9')
		m.SetRange('A', 'Z')
		m.SetRange('a', 'z')
		m.Set('_')
	case 's':
		for _, b := range []byte{' ', '\t', '\n', '\r', '\f', '\v'} {
			m.Set(b)
		}
	}
	if c >= 'A' && c <= 'Z' {
		m.Invert()
	}
	return m
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
