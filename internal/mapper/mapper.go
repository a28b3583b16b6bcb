// Package mapper projects one struct type onto another from a declarative table of field rules.
//
// A projection is compiled once, usually into a package-level variable:
//
//	var CategoryToResponse = mapper.Must[models.Category, CategoryResponse](
//		mapper.Field("ID", "Name", "Description"),
//		mapper.Rename("Active", "IsActive"),
//	)
//
// Compilation checks that every named field exists and that the types fit, so a
// broken table panics at init instead of silently dropping data. Applying a
// projection only copies fields. It never validates, loads or persists anything.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidRule is returned by Compile for rules that do not fit the types.
var ErrInvalidRule = errors.New("mapper: invalid rule")

// Projector is implemented by compiled projections so they can be nested in other tables.
type Projector interface {
	types() (src, dst reflect.Type)
	project(src reflect.Value) reflect.Value
}

type ruleKind uint8

const (
	kindCopy ruleKind = iota
	kindNested
	kindEach
)

// Rule is one line of a mapping table.
type Rule struct {
	pairs  [][2]string
	kind   ruleKind
	nested Projector
}

// Field copies each named field to the field of the same name.
func Field(names ...string) Rule {
	r := Rule{kind: kindCopy}
	for _, n := range names {
		r.pairs = append(r.pairs, [2]string{n, n})
	}

	return r
}

// Rename copies field from into field to.
func Rename(from, to string) Rule {
	return Rule{pairs: [][2]string{{from, to}}, kind: kindCopy}
}

// Nested maps a struct (or pointer to struct) field through p. A nil source pointer yields a nil or zero target.
func Nested(from, to string, p Projector) Rule {
	return Rule{pairs: [][2]string{{from, to}}, kind: kindNested, nested: p}
}

// Each maps every element of a slice field through p.
func Each(from, to string, p Projector) Rule {
	return Rule{pairs: [][2]string{{from, to}}, kind: kindEach, nested: p}
}

type step struct {
	from, to []int
	kind     ruleKind
	convert  reflect.Type // non-nil when a same-kind conversion is needed
	nested   Projector
	srcPtr   bool
	dstPtr   bool
	dstType  reflect.Type
}

// Projection maps values of S onto values of D.
type Projection[S, D any] struct {
	src, dst reflect.Type
	steps    []step
}

// Must is like Compile but panics on error.
func Must[S, D any](rules ...Rule) *Projection[S, D] {
	p, err := Compile[S, D](rules...)
	if err != nil {
		panic(err)
	}

	return p
}

// Compile validates the rules against S and D.
func Compile[S, D any](rules ...Rule) (*Projection[S, D], error) {
	p := &Projection[S, D]{
		src: reflect.TypeFor[S](),
		dst: reflect.TypeFor[D](),
	}

	if p.src.Kind() != reflect.Struct || p.dst.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s -> %s: both sides must be structs", ErrInvalidRule, p.src, p.dst)
	}

	for _, r := range rules {
		for _, pair := range r.pairs {
			s, err := p.compileStep(r, pair[0], pair[1])
			if err != nil {
				return nil, err
			}

			p.steps = append(p.steps, s)
		}
	}

	return p, nil
}

func (p *Projection[S, D]) compileStep(r Rule, from, to string) (step, error) {
	sf, ok := p.src.FieldByName(from)
	if !ok || !sf.IsExported() {
		return step{}, fmt.Errorf("%w: %s has no exported field %s", ErrInvalidRule, p.src, from)
	}

	df, ok := p.dst.FieldByName(to)
	if !ok || !df.IsExported() {
		return step{}, fmt.Errorf("%w: %s has no exported field %s", ErrInvalidRule, p.dst, to)
	}

	s := step{from: sf.Index, to: df.Index, kind: r.kind, nested: r.nested, dstType: df.Type}
	mismatch := fmt.Errorf("%w: %s.%s (%s) does not fit %s.%s (%s)",
		ErrInvalidRule, p.src, from, sf.Type, p.dst, to, df.Type)

	switch r.kind {
	case kindCopy:
		switch {
		case sf.Type.AssignableTo(df.Type):
		case sf.Type.Kind() == df.Type.Kind() && isBasic(sf.Type.Kind()) && sf.Type.ConvertibleTo(df.Type):
			s.convert = df.Type
		default:
			return step{}, mismatch
		}
	case kindNested:
		if r.nested == nil {
			return step{}, fmt.Errorf("%w: nil projection for %s", ErrInvalidRule, from)
		}

		ns, nd := r.nested.types()

		var okSrc, okDst bool
		s.srcPtr, okSrc = fits(sf.Type, ns)
		s.dstPtr, okDst = fits(df.Type, nd)

		if !okSrc || !okDst {
			return step{}, mismatch
		}
	case kindEach:
		if r.nested == nil {
			return step{}, fmt.Errorf("%w: nil projection for %s", ErrInvalidRule, from)
		}

		if sf.Type.Kind() != reflect.Slice || df.Type.Kind() != reflect.Slice {
			return step{}, mismatch
		}

		ns, nd := r.nested.types()

		var okSrc, okDst bool
		s.srcPtr, okSrc = fits(sf.Type.Elem(), ns)
		s.dstPtr, okDst = fits(df.Type.Elem(), nd)

		if !okSrc || !okDst {
			return step{}, mismatch
		}
	}

	return s, nil
}

// fits reports whether t is want or *want, and which of the two.
func fits(t, want reflect.Type) (ptr, ok bool) {
	switch {
	case t == want:
		return false, true
	case t.Kind() == reflect.Pointer && t.Elem() == want:
		return true, true
	default:
		return false, false
	}
}

func isBasic(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Map returns a new D filled from src, or nil when src is nil.
func (p *Projection[S, D]) Map(src *S) *D {
	if src == nil {
		return nil
	}

	dst := new(D)
	p.apply(reflect.ValueOf(src).Elem(), reflect.ValueOf(dst).Elem())

	return dst
}

// MapAll maps every element of src. A nil slice maps to an empty slice.
func (p *Projection[S, D]) MapAll(src []S) []D {
	out := make([]D, len(src))
	for i := range src {
		p.apply(reflect.ValueOf(&src[i]).Elem(), reflect.ValueOf(&out[i]).Elem())
	}

	return out
}

// Into copies the declared fields of src into dst and leaves every other field of dst untouched.
func (p *Projection[S, D]) Into(src *S, dst *D) {
	if src == nil || dst == nil {
		return
	}

	p.apply(reflect.ValueOf(src).Elem(), reflect.ValueOf(dst).Elem())
}

func (p *Projection[S, D]) types() (src, dst reflect.Type) {
	return p.src, p.dst
}

func (p *Projection[S, D]) project(src reflect.Value) reflect.Value {
	out := reflect.New(p.dst).Elem()
	p.apply(src, out)

	return out
}

func (p *Projection[S, D]) apply(sv, dv reflect.Value) {
	for _, s := range p.steps {
		f := sv.FieldByIndex(s.from)
		t := dv.FieldByIndex(s.to)

		switch s.kind {
		case kindCopy:
			if s.convert != nil {
				t.Set(f.Convert(s.convert))
				continue
			}

			t.Set(f)
		case kindNested:
			if s.srcPtr {
				if f.IsNil() {
					t.SetZero()
					continue
				}

				f = f.Elem()
			}

			t.Set(wrap(s.nested.project(f), s.dstPtr))
		case kindEach:
			if f.IsNil() {
				t.SetZero()
				continue
			}

			out := reflect.MakeSlice(s.dstType, f.Len(), f.Len())

			for i := range f.Len() {
				e := f.Index(i)
				if s.srcPtr {
					if e.IsNil() {
						continue
					}

					e = e.Elem()
				}

				out.Index(i).Set(wrap(s.nested.project(e), s.dstPtr))
			}

			t.Set(out)
		}
	}
}

func wrap(v reflect.Value, ptr bool) reflect.Value {
	if !ptr {
		return v
	}

	pv := reflect.New(v.Type())
	pv.Elem().Set(v)

	return pv
}
