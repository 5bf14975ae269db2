// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind names a layer of a composed allocator chain.
type Kind uint8

const (
	// KindNull is the inert terminal: nothing to allocate, nothing to free.
	KindNull Kind = iota
	// KindStandard is the terminal backed by the Go heap.
	KindStandard
	// KindMapped is the terminal backed by anonymous OS pages.
	KindMapped
	// KindStaticBuffer is the terminal whose arena lives with the allocator object.
	KindStaticBuffer
	// KindStaticItem is the free-list terminal owning N single-value slots.
	KindStaticItem
	// KindIdentity hands out the whole arena for every request.
	KindIdentity
	// KindScoped acquires the arena from its delegate on construction and
	// gives it back on release.
	KindScoped
	// KindMonotonic bump-allocates inside the arena.
	KindMonotonic
	// KindTracked counts the traffic that reaches its delegate.
	KindTracked
	// KindFixedItem is the free-list policy over an arena from its delegate.
	KindFixedItem
)

var kindNames = [...]string{
	KindNull:         "null",
	KindStandard:     "standard",
	KindMapped:       "mapped",
	KindStaticBuffer: "static_buffer",
	KindStaticItem:   "static_item",
	KindIdentity:     "identity",
	KindScoped:       "scoped",
	KindMonotonic:    "monotonic",
	KindTracked:      "tracked",
	KindFixedItem:    "fixed_item",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsTerminal reports whether k ends a chain.
func (k Kind) IsTerminal() bool {
	switch k {
	case KindNull, KindStandard, KindMapped, KindStaticBuffer, KindStaticItem:
		return true
	}
	return false
}

func (k Kind) isItem() bool {
	return k == KindStaticItem || k == KindFixedItem
}

// Composite describes an allocator chain independently of its element type.
// It is reified for a concrete T with New.
type Composite struct {
	Kind     Kind
	N        int
	Delegate *Composite
}

// Null describes the inert terminal.
func Null() Composite { return Composite{Kind: KindNull} }

// Standard describes the Go heap terminal.
func Standard() Composite { return Composite{Kind: KindStandard} }

// Mapped describes the OS page terminal.
func Mapped() Composite { return Composite{Kind: KindMapped} }

// StaticBuffer describes a terminal holding an arena of n slots.
func StaticBuffer(n int) Composite { return Composite{Kind: KindStaticBuffer, N: n} }

// StaticItem describes a free-list terminal of n single-value slots.
func StaticItem(n int) Composite { return Composite{Kind: KindStaticItem, N: n} }

// Identity describes a layer returning the chain's arena for every request.
func Identity(d Composite) Composite { return wrap(KindIdentity, 0, d) }

// Scoped describes a layer owning an arena of the delegate's MaxSize slots.
func Scoped(d Composite) Composite { return wrap(KindScoped, 0, d) }

// ScopedN describes a layer owning an arena of n slots acquired from d.
func ScopedN(d Composite, n int) Composite { return wrap(KindScoped, n, d) }

// Monotonic describes a bump allocator over the chain's arena.
func Monotonic(d Composite) Composite { return wrap(KindMonotonic, 0, d) }

// Tracked describes a layer counting the calls that reach d.
func Tracked(d Composite) Composite { return wrap(KindTracked, 0, d) }

// FixedItem describes a free list of n slots carved from d's arena.
// With n == 0 the slot count is taken from the arena the chain below provides.
func FixedItem(d Composite, n int) Composite { return wrap(KindFixedItem, n, d) }

func wrap(k Kind, n int, d Composite) Composite {
	return Composite{Kind: k, N: n, Delegate: &d}
}

// Terminal returns the innermost layer of c.
func (c Composite) Terminal() Composite {
	for c.Delegate != nil {
		c = *c.Delegate
	}
	return c
}

// Depth returns the number of layers in c, the terminal included.
func (c Composite) Depth() int {
	n := 1
	for d := c.Delegate; d != nil; d = d.Delegate {
		n++
	}
	return n
}

// capacity returns the number of arena slots the chain holds, 0 if unbounded
// or if no layer below populates an arena.
func (c Composite) capacity() int {
	switch c.Kind {
	case KindStaticBuffer, KindStaticItem:
		return c.N
	case KindScoped, KindFixedItem:
		if c.N > 0 {
			return c.N
		}
	}
	if c.Delegate != nil {
		return c.Delegate.capacity()
	}
	return 0
}

// Validate reports whether c describes a chain that can be reified.
func (c Composite) Validate() error {
	return c.validate(true)
}

func (c Composite) validate(top bool) error {
	if int(c.Kind) >= len(kindNames) {
		return fmt.Errorf("%w: unknown kind %d", ErrComposite, c.Kind)
	}
	if c.N < 0 {
		return fmt.Errorf("%w: %v: negative size %d", ErrComposite, c.Kind, c.N)
	}
	if c.Kind.isItem() && !top {
		return fmt.Errorf("%w: %v must be the outermost layer", ErrComposite, c.Kind)
	}
	if c.Kind.IsTerminal() {
		if c.Delegate != nil {
			return fmt.Errorf("%w: terminal %v cannot wrap a delegate", ErrComposite, c.Kind)
		}
		switch c.Kind {
		case KindStaticBuffer, KindStaticItem:
			if c.N == 0 {
				return fmt.Errorf("%w: %v needs a size", ErrComposite, c.Kind)
			}
		default:
			if c.N != 0 {
				return fmt.Errorf("%w: %v takes no size", ErrComposite, c.Kind)
			}
		}
		return nil
	}
	if c.Delegate == nil {
		return fmt.Errorf("%w: policy %v needs a delegate", ErrComposite, c.Kind)
	}
	switch c.Kind {
	case KindScoped, KindFixedItem:
		if c.capacity() == 0 {
			return fmt.Errorf("%w: %v over %v needs an explicit size", ErrComposite, c.Kind, c.Delegate.Kind)
		}
	default:
		if c.N != 0 {
			return fmt.Errorf("%w: %v takes no size", ErrComposite, c.Kind)
		}
	}
	return c.Delegate.validate(false)
}

// String renders c in the syntax accepted by ParseComposite.
func (c Composite) String() string {
	var sb strings.Builder
	c.format(&sb)
	return sb.String()
}

func (c Composite) format(sb *strings.Builder) {
	sb.WriteString(c.Kind.String())
	switch {
	case c.Delegate != nil:
		sb.WriteByte('(')
		c.Delegate.format(sb)
		if c.N > 0 {
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(c.N))
		}
		sb.WriteByte(')')
	case c.N > 0:
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(c.N))
		sb.WriteByte(')')
	}
}

// ParseComposite parses a chain description such as
// "identity(scoped(static_buffer(4)))" or "fixed_item(scoped(standard,64))".
// "static" is accepted as a short name for static_buffer.
func ParseComposite(s string) (Composite, error) {
	p := &parser{src: s}
	c, err := p.term()
	if err != nil {
		return Composite{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Composite{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	if err := c.Validate(); err != nil {
		return Composite{}, err
	}
	return c, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", ErrComposite, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			p.pos++
			continue
		}
		break
	}
	return strings.ToLower(p.src[start:p.pos])
}

func lookupKind(name string) (Kind, bool) {
	if name == "static" {
		return KindStaticBuffer, true
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

func (p *parser) term() (Composite, error) {
	name := p.ident()
	if name == "" {
		return Composite{}, p.errorf("expected a layer name")
	}
	kind, ok := lookupKind(name)
	if !ok {
		return Composite{}, p.errorf("unknown layer %q", name)
	}
	c := Composite{Kind: kind}
	if p.peek() != '(' {
		return c, nil
	}
	p.pos++
	for {
		if ch := p.peek(); ch >= '0' && ch <= '9' {
			n, err := p.number()
			if err != nil {
				return Composite{}, err
			}
			c.N = n
		} else {
			d, err := p.term()
			if err != nil {
				return Composite{}, err
			}
			if c.Delegate != nil {
				return Composite{}, p.errorf("%v takes a single delegate", kind)
			}
			c.Delegate = &d
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return c, nil
		default:
			return Composite{}, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) number() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("bad size %q: %v", p.src[start:p.pos], err)
	}
	return n, nil
}

// StateType returns the type of the state a chain described by c holds when
// reified for T. Item chains keep their state over slot records rather than
// over T; a static item pool owns its slots directly and has no state.
func StateType[T any](c Composite) reflect.Type {
	switch c.Kind {
	case KindStaticItem:
		return nil
	case KindFixedItem:
		switch IndexWidth(uint64(c.capacity())) {
		case 1:
			return reflect.TypeFor[*State[block[T, uint8]]]()
		case 2:
			return reflect.TypeFor[*State[block[T, uint16]]]()
		case 4:
			return reflect.TypeFor[*State[block[T, uint32]]]()
		default:
			return reflect.TypeFor[*State[block[T, uint64]]]()
		}
	}
	return reflect.TypeFor[*State[T]]()
}

// ConcreteType returns the type of the outermost layer New[T](c) builds,
// without building it.
func ConcreteType[T any](c Composite) reflect.Type {
	switch c.Kind {
	case KindNull:
		return reflect.TypeFor[*nullAllocator[T]]()
	case KindStandard:
		return reflect.TypeFor[*standardAllocator[T]]()
	case KindMapped:
		return reflect.TypeFor[*mappedAllocator[T]]()
	case KindStaticBuffer:
		return reflect.TypeFor[*staticBuffer[T]]()
	case KindIdentity:
		return reflect.TypeFor[*identity[T]]()
	case KindScoped:
		return reflect.TypeFor[*scoped[T]]()
	case KindMonotonic:
		return reflect.TypeFor[*monotonic[T]]()
	case KindTracked:
		return reflect.TypeFor[*tracked[T]]()
	case KindStaticItem:
		switch IndexWidth(uint64(c.N)) {
		case 1:
			return reflect.TypeFor[*staticItem[T, uint8]]()
		case 2:
			return reflect.TypeFor[*staticItem[T, uint16]]()
		case 4:
			return reflect.TypeFor[*staticItem[T, uint32]]()
		default:
			return reflect.TypeFor[*staticItem[T, uint64]]()
		}
	case KindFixedItem:
		switch IndexWidth(uint64(c.capacity())) {
		case 1:
			return reflect.TypeFor[*fixedItem[T, uint8]]()
		case 2:
			return reflect.TypeFor[*fixedItem[T, uint16]]()
		case 4:
			return reflect.TypeFor[*fixedItem[T, uint32]]()
		default:
			return reflect.TypeFor[*fixedItem[T, uint64]]()
		}
	}
	return nil
}
