package gitcore

import "unsafe"

// Layout engine for raw native structures. The native library exposes some
// records (signatures, diff files, config entries) only as structs whose
// layout is fixed by the C ABI; this file derives field offsets mechanically
// from an ordered field list so that the 32-bit/64-bit divergence stays in
// one routine instead of scattered offset constants.
//
// Rules, matching SysV struct packing for the shapes we decode:
//   - a scalar of size s aligns to min(s, pointer width)
//   - a pointer aligns to the pointer width
//   - a fixed byte array aligns to 1
//   - an embedded struct aligns to its own alignment
//   - each field starts at the next multiple of its alignment
//   - total size rounds up to the struct's max field alignment

// ptrSize is the host pointer width. Layouts can be computed for a foreign
// width too (the tests do), but runtime decoding always uses the host's.
var ptrSize = unsafe.Sizeof(uintptr(0))

type fieldKind int

const (
	fieldScalar fieldKind = iota
	fieldPointer
	fieldBytes
	fieldStruct
)

type fieldSpec struct {
	name string
	kind fieldKind
	size uintptr       // scalar width or byte-array length; ignored for pointer/struct
	sub  *structLayout // fieldStruct only
}

func scalarField(name string, size uintptr) fieldSpec {
	return fieldSpec{name: name, kind: fieldScalar, size: size}
}

func pointerField(name string) fieldSpec {
	return fieldSpec{name: name, kind: fieldPointer}
}

func bytesField(name string, n uintptr) fieldSpec {
	return fieldSpec{name: name, kind: fieldBytes, size: n}
}

func structField(name string, sub *structLayout) fieldSpec {
	return fieldSpec{name: name, kind: fieldStruct, sub: sub}
}

// structLayout holds the computed offsets for one struct at one pointer
// width.
type structLayout struct {
	ptr     uintptr
	fields  []fieldSpec
	offsets map[string]uintptr
	size    uintptr
	align   uintptr
}

func alignUp(x, a uintptr) uintptr {
	m := a - 1
	return (x + m) &^ m
}

func (f *fieldSpec) sizeAlign(ptr uintptr) (size, align uintptr) {
	switch f.kind {
	case fieldPointer:
		return ptr, ptr
	case fieldBytes:
		return f.size, 1
	case fieldStruct:
		return f.sub.size, f.sub.align
	default:
		a := f.size
		if a > ptr {
			a = ptr
		}
		return f.size, a
	}
}

// newLayout computes a layout for the given pointer width. Field order is
// declaration order; there is no reordering, exactly as in C.
func newLayout(ptr uintptr, fields ...fieldSpec) *structLayout {
	l := &structLayout{
		ptr:     ptr,
		fields:  fields,
		offsets: make(map[string]uintptr, len(fields)),
		align:   1,
	}
	var off uintptr
	for i := range fields {
		size, align := fields[i].sizeAlign(ptr)
		off = alignUp(off, align)
		l.offsets[fields[i].name] = off
		off += size
		if align > l.align {
			l.align = align
		}
	}
	l.size = alignUp(off, l.align)
	return l
}

// offset returns the byte offset of a named field. Unknown names are a
// programming error.
func (l *structLayout) offset(name string) uintptr {
	off, ok := l.offsets[name]
	if !ok {
		panic("gitcore: layout: unknown field " + name)
	}
	return off
}

// Size reports the total struct size including trailing padding.
func (l *structLayout) Size() uintptr { return l.size }

// Align reports the struct's overall alignment.
func (l *structLayout) Align() uintptr { return l.align }
